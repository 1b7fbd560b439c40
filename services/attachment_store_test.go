package services

import (
	"context"
	"testing"

	"DoctorPortal/models"

	"github.com/stretchr/testify/assert"
)

func newTestStore() *AttachmentStore {
	processor := NewFileProcessor()
	processor.OpenPDF = func(data []byte) (PDFDocument, error) {
		return &fakePDF{pages: 1}, nil
	}
	return NewAttachmentStore(NewUploadValidator(DefaultFileConfig()), processor)
}

func TestStoreAdd_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore()

	err := store.Add(context.Background(), []FileInput{
		{Name: "first.pdf", MimeType: "application/pdf", Data: []byte("%PDF")},
		{Name: "second.txt", MimeType: "text/plain", Data: []byte("hi")},
		{Name: "third.pdf", MimeType: "application/pdf", Data: []byte("%PDF")},
	})
	assert.NoError(t, err)
	store.Wait()

	list := store.List()
	assert.Len(t, list, 3)
	assert.Equal(t, "first.pdf", list[0].FileName)
	assert.Equal(t, "second.txt", list[1].FileName)
	assert.Equal(t, "third.pdf", list[2].FileName)
}

func TestStoreAdd_RejectsWholeBatch(t *testing.T) {
	store := newTestStore()

	err := store.Add(context.Background(), []FileInput{
		{Name: "ok.txt", MimeType: "text/plain", Data: []byte("hi")},
		{Name: "bad.mp4", MimeType: "video/mp4", Data: []byte("...")},
	})

	// валидный файл из пакета тоже не принят
	assert.Error(t, err)
	assert.Empty(t, store.List())
}

func TestStoreRemove_DropsEntryAndPreview(t *testing.T) {
	store := newTestStore()

	assert.NoError(t, store.Add(context.Background(), []FileInput{
		{Name: "a.txt", MimeType: "text/plain", Data: []byte("a")},
		{Name: "b.txt", MimeType: "text/plain", Data: []byte("b")},
	}))
	store.Wait()

	list := store.List()
	assert.True(t, store.Remove(list[0].ID))

	remaining := store.List()
	assert.Len(t, remaining, 1)
	assert.Equal(t, "b.txt", remaining[0].FileName)

	assert.False(t, store.Remove("missing-id"))
}

func TestStoreReady_ExcludesFailedFiles(t *testing.T) {
	processor := NewFileProcessor()
	processor.OpenPDF = func(data []byte) (PDFDocument, error) {
		return &fakePDF{
			pages:         1,
			primaryFails:  map[int]bool{1: true},
			fallbackFails: map[int]bool{1: true},
		}, nil
	}
	store := NewAttachmentStore(NewUploadValidator(DefaultFileConfig()), processor)

	assert.NoError(t, store.Add(context.Background(), []FileInput{
		{Name: "scan.pdf", MimeType: "application/pdf", Data: []byte("%PDF")},
		{Name: "note.txt", MimeType: "text/plain", Data: []byte("hi")},
	}))
	store.Wait()

	ready := store.Ready()
	assert.Len(t, ready, 1)
	assert.Equal(t, "note.txt", ready[0].FileName)

	all := store.List()
	assert.Len(t, all, 2)
	for _, att := range all {
		if att.FileName == "scan.pdf" {
			assert.Equal(t, models.AttachmentError, att.Status)
		}
	}
}

func TestStoreClear_RemovesEverything(t *testing.T) {
	store := newTestStore()

	assert.NoError(t, store.Add(context.Background(), []FileInput{
		{Name: "a.txt", MimeType: "text/plain", Data: []byte("a")},
	}))
	store.Wait()

	store.Clear()
	assert.Empty(t, store.List())
}
