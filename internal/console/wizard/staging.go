package wizard

import (
	"encoding/base64"
	"sync"
)

// StagedFile is a locally held document awaiting submission. The
// preview is decoded asynchronously and is purely cosmetic: guards and
// payloads depend only on the file's presence, never on the preview.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte

	mu      sync.Mutex
	preview string
	done    chan struct{}
}

// Preview returns the data URL once decoding has finished, or "".
func (f *StagedFile) Preview() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// WaitPreview blocks until the preview is ready. Tests use it; the UI
// polls Preview instead.
func (f *StagedFile) WaitPreview() string {
	<-f.done
	return f.Preview()
}

// StageFile places a document in a slot, replacing any previous one,
// and kicks off preview decoding in the background.
func (w *Wizard) StageFile(kind, name, contentType string, data []byte) *StagedFile {
	f := &StagedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		done:        make(chan struct{}),
	}
	w.files[kind] = f

	go func() {
		encoded := base64.StdEncoding.EncodeToString(f.Data)
		f.mu.Lock()
		f.preview = "data:" + f.ContentType + ";base64," + encoded
		f.mu.Unlock()
		close(f.done)
	}()

	return f
}

// RemoveFile clears a slot.
func (w *Wizard) RemoveFile(kind string) {
	delete(w.files, kind)
}

// Staged reports whether a slot holds a file.
func (w *Wizard) Staged(kind string) bool {
	_, ok := w.files[kind]
	return ok
}

// File returns the staged file for a slot, or nil.
func (w *Wizard) File(kind string) *StagedFile {
	return w.files[kind]
}
