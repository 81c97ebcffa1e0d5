// Package shell tracks whether the widget panel is open and which side it
// docks to, and ties the config poll to the panel's visibility.
//
// Opening kicks one refresh in the background and arms the poll; closing
// disarms it. The first config to arrive may open the panel by itself when
// it carries open_by_default.
package shell
