// Package macro provides keyboard macro recording and playback for kite.
//
// A Manager holds a single macro buffer. While recording, every event the
// input multiplexer resolves is appended to the buffer before it reaches the
// editor, so recording is invisible to the consumer. Playback hands the
// buffered events back one at a time through Next, which the multiplexer
// prefers over live terminal input.
//
// # States
//
//	Idle -> Recording -> Idle   (Record, then Finish)
//	Idle -> Playing   -> Idle   (Play, then exhaustion or Finish)
//
// Recording and playing are mutually exclusive: Play finishes an
// in-progress recording first, and Record is ignored during playback.
//
// # Example
//
//	mm := macro.NewManager()
//	mm.Record()
//	mm.Append(ev1)
//	mm.Append(ev2)
//	mm.Finish()
//	mm.Play(3)
//	for ev, ok := mm.Next(); ok; ev, ok = mm.Next() {
//	    // ev1, ev2, ev1, ev2, ev1, ev2
//	}
//
// # Thread Safety
//
// A Manager is owned by the editor's control goroutine and is not safe for
// concurrent use.
package macro
