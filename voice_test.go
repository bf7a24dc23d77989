package dx7

import "testing"

func TestNewDx7NoteProducesSoundThenDies(t *testing.T) {
	initTables(44100)
	patch := epiano[:]
	note := newDx7Note(patch, 60, 100)

	var buf [blockSize]int32
	heardSound := false
	for i := 0; i < 50; i++ {
		note.compute(&buf)
		for _, s := range buf {
			if s != 0 {
				heardSound = true
			}
		}
	}
	if !heardSound {
		t.Fatal("a freshly struck note should produce non-zero samples within 50 blocks")
	}

	note.keyUp()
	for i := 0; i < 50000 && !note.isDone(); i++ {
		note.compute(&buf)
	}
	if !note.isDone() {
		t.Fatal("note should become done well within 50000 blocks after keyUp")
	}
}

func TestDx7NoteHigherNotePlaysFasterPhase(t *testing.T) {
	initTables(44100)
	patch := epiano[:]
	low := newDx7Note(patch, 40, 100)
	high := newDx7Note(patch, 80, 100)
	if high.ops[0].increment <= low.ops[0].increment {
		t.Fatalf("higher MIDI note should have a larger phase increment: low=%d high=%d", low.ops[0].increment, high.ops[0].increment)
	}
}
