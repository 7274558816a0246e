package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

func resetForTest(t *testing.T) {
	t.Helper()
	prevFS, prevInit := dataFS, initialized
	t.Cleanup(func() {
		dataFS, initialized = prevFS, prevInit
	})
	dataFS, initialized = nil, false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetForTest(t)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
	if IsInitialized() {
		t.Error("Expected Init(nil) to leave the package uninitialized")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	resetForTest(t)

	if _, err := ReadFile("data/effects.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := Open("data/effects.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	resetForTest(t)
	Init(fstest.MapFS{
		"data/effects.yaml": {Data: []byte("burst: {}\n")},
	})

	data, err := ReadFile("./data/effects.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "burst: {}\n" {
		t.Errorf("unexpected content %q", data)
	}

	if !Exists("data/effects.yaml") {
		t.Error("Expected data/effects.yaml to exist")
	}
	if Exists("data/missing.yaml") {
		t.Error("Expected data/missing.yaml to be absent")
	}
}

func TestUnknownPrefix(t *testing.T) {
	resetForTest(t)
	Init(fstest.MapFS{"assets/x.png": {Data: []byte{1}}})

	if _, err := ReadFile("assets/x.png"); err == nil {
		t.Error("Expected error for non-data prefix")
	}
	if Exists("assets/x.png") {
		t.Error("non-data paths must not resolve")
	}
}
