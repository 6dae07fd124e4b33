// Package view draws a document on a terminal backend and turns key
// presses into editing commands.
//
// Every command runs to completion on the UI goroutine and is followed by
// the same sequence:
//
//  1. one document.edited event per user edit the command made
//  2. a command.completed event carrying the new cursor position
//  3. presentation of the visible lines through the render scheduler
//  4. a redraw
//
// Reveal sessions listen for the events of steps 1 and 2, so by the time
// the screen is redrawn the element under the cursor already shows its
// delimiters.
//
// Drawing follows the document's visibility state: hidden runes take no
// cell, a composition draws its glyph once in place of the runes it
// covers, decorated runes are underlined and display runes are dimmed.
package view
