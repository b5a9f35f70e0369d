// Package app holds the application layer of record vault: the encrypted record
// store, the shell owning its lifecycle, the services behind every user action,
// the live table views, the storage monitor and the QR scanner.
package app
