// Package qrdecode reads QR code payloads from images with gozxing.
package qrdecode
