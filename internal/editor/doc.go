// Package editor implements a modal line-editing engine.
//
// A State owns a TextBuffer, a Cursor, a CommandBuffer and the current Mode.
// Input arrives one raw byte at a time through HandleInput, which dispatches
// on the mode and reports an Outcome:
//
//	st := editor.New(editor.DefaultOptions())
//	for _, b := range []byte("ihello\x1b:q\n") {
//		out, err := st.HandleInput(b)
//		...
//	}
//
// The engine is byte oriented. Multi-byte UTF-8 sequences are stored as
// they arrive and cursor columns count bytes, not characters.
//
// State is not safe for concurrent use. A single owner feeds it bytes and
// reads Snapshots for rendering.
package editor
