package cli

import (
	"bytes"
	"errors"
	"testing"
)

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("s3cret"), nil
	}

	var out bytes.Buffer
	pw, err := GetPassword(&out, "Enter password: ")
	if err != nil || pw != "s3cret" {
		t.Fatalf("got %q, err=%v", pw, err)
	}
	if out.String() != "Enter password: \n" {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	if _, err := GetPassword(&out, "pw: "); err == nil {
		t.Fatal("expected error")
	}
}

func TestPasswordFlagsResolve(t *testing.T) {
	fs := newFlagSet("test", &bytes.Buffer{})
	p := newPasswordFlags(fs, "previous-password", "")
	if err := fs.Parse([]string{"-previous-password", "abc"}); err != nil {
		t.Fatal(err)
	}
	got, err := p.resolve(&bytes.Buffer{})
	if err != nil || got != "abc" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !isSet(fs, "previous-password") || isSet(fs, "ask-previous-password") {
		t.Fatalf("unexpected visited flags")
	}
}
