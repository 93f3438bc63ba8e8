package wire

import (
	"reflect"
	"testing"
)

func TestEncodeRequest_DecodeRequest_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind MessageKind
		msg  any
	}{
		{"Ping", Ping, PingMessage{}},
		{
			"StartProcess",
			StartProcess,
			StartProcessMessage{
				App:     "/bin/sh",
				Cmdline: "/bin/sh -c 'echo hi'",
				Cwd:     "/home/user",
				Env:     []string{"PATH=/usr/bin", "HOME=/home/user"},
				Desktop: "",
			},
		},
		{
			"StartProcess with empty env",
			StartProcess,
			StartProcessMessage{App: "/bin/sh", Cmdline: "/bin/sh", Cwd: "/", Env: nil, Desktop: ""},
		},
		{"SetSize", SetSize, SetSizeMessage{Cols: 120, Rows: 40}},
		{"GetExitCode", GetExitCode, GetExitCodeMessage{}},
		{"GetProcessId", GetProcessId, GetProcessIdMessage{}},
		{"SetConsoleMode", SetConsoleMode, SetConsoleModeMessage{Mode: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := EncodeRequest(tt.kind, tt.msg)
			if err != nil {
				t.Fatalf("EncodeRequest() error = %v", err)
			}

			gotKind, gotMsg, err := DecodeRequest(payload)
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}

			if gotKind != tt.kind {
				t.Errorf("DecodeRequest() kind = %v, want %v", gotKind, tt.kind)
			}

			if !reflect.DeepEqual(gotMsg, tt.msg) {
				t.Errorf("DecodeRequest() msg = %#v, want %#v", gotMsg, tt.msg)
			}
		})
	}
}

func TestDecodeRequest_UnknownKind(t *testing.T) {
	payload := []byte{99, 0, 0, 0}
	if _, _, err := DecodeRequest(payload); err == nil {
		t.Fatal("DecodeRequest() error = nil, want error for unknown kind")
	}
}

func TestStatusReply_RoundTrip(t *testing.T) {
	for _, status := range []uint32{StatusOK, StatusFail, 42} {
		payload := EncodeStatusReply(status)
		got, err := DecodeStatusReply(payload)
		if err != nil {
			t.Fatalf("DecodeStatusReply() error = %v", err)
		}
		if got != status {
			t.Errorf("DecodeStatusReply() = %d, want %d", got, status)
		}
	}
}

func TestEncodeEnvBlock_DecodeEnvBlock_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  []string
	}{
		{"empty", nil},
		{"single entry", []string{"FOO=bar"}},
		{"multiple entries", []string{"PATH=/usr/bin", "HOME=/home/user", "TERM=xterm-256color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := EncodeEnvBlock(tt.env)
			got := DecodeEnvBlock(block)

			if len(tt.env) == 0 {
				if len(got) != 0 {
					t.Errorf("DecodeEnvBlock() = %v, want empty", got)
				}
				return
			}

			if !reflect.DeepEqual(got, tt.env) {
				t.Errorf("DecodeEnvBlock() = %v, want %v", got, tt.env)
			}
		})
	}
}

func TestEncodeEnvBlock_EmptyHasExactlyOneTrailingNUL(t *testing.T) {
	block := EncodeEnvBlock(nil)
	if block != "\x00" {
		t.Fatalf("EncodeEnvBlock(nil) = %q, want a single NUL byte", block)
	}
}

func TestEncodeEnvBlock_DoubleNULTerminated(t *testing.T) {
	block := EncodeEnvBlock([]string{"A=1", "B=2"})
	want := "A=1\x00B=2\x00\x00"
	if block != want {
		t.Fatalf("EncodeEnvBlock() = %q, want %q", block, want)
	}
}
