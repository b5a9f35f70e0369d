// Package camera provides a camera backed by a directory of image files.
// Each file is one frame; frames are served in lexical file name order.
package camera
