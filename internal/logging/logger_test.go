// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetDebugGatesDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	L.SetOutput(&buf)
	defer L.SetOutput(os.Stderr)
	defer SetDebug(false)

	SetDebug(false)
	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output emitted while disabled: %q", buf.String())
	}

	SetDebug(true)
	Debugf("visible %d", 2)
	if !strings.Contains(buf.String(), "visible 2") {
		t.Fatalf("expected debug output after SetDebug(true), got %q", buf.String())
	}
}

func TestInfoAlwaysEmits(t *testing.T) {
	var buf bytes.Buffer
	L.SetOutput(&buf)
	defer L.SetOutput(os.Stderr)
	defer SetDebug(false)

	SetDebug(false)
	Infof("status %s", "ok")
	Warnf("warned")
	Errorf("failed: %v", "boom")

	out := buf.String()
	for _, want := range []string{"status ok", "warned", "failed: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}
