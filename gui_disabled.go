//go:build !gui

package main

func initGUI() {
	panic("pill: built without GUI support (rebuild with -tags gui)")
}
