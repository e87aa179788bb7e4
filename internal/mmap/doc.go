// Package mmap maps annotation files read-only into memory.
//
// Annotation sources are parsed whole (COCO caption and instance files are
// tens to hundreds of megabytes), so the loaders map a file once, hint the
// kernel that it will be read front to back, and decode straight from the
// mapped bytes.
//
//	m, err := mmap.Open("annotations/captions_train2017.json")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the mapping is created with mmap(2). Other platforms fall back to
// reading the file into a heap buffer behind the same API.
package mmap
