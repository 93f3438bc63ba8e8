package transport

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDataServer_DataClient_FullDuplex(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "data.sock")

	srv, err := ListenData(sock)
	if err != nil {
		t.Fatalf("ListenData() error = %v", err)
	}
	defer srv.Close()

	accepted := make(chan error, 1)
	var serverBuf [5]byte
	go func() {
		conn, err := srv.Accept()
		if err != nil {
			accepted <- err
			return
		}
		defer conn.Close()

		if _, err := conn.Read(serverBuf[:]); err != nil {
			accepted <- err
			return
		}
		if _, err := conn.Write([]byte("world")); err != nil {
			accepted <- err
			return
		}
		accepted <- nil
	}()

	client, err := DialData(sock, time.Second)
	if err != nil {
		t.Fatalf("DialData() error = %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("hello")); err != nil {
		t.Fatalf("client.Write() error = %v", err)
	}

	var clientBuf [5]byte
	if _, err := client.Read(clientBuf[:]); err != nil {
		t.Fatalf("client.Read() error = %v", err)
	}

	if err := <-accepted; err != nil {
		t.Fatalf("server side error: %v", err)
	}

	if string(serverBuf[:]) != "hello" {
		t.Errorf("server received %q, want %q", serverBuf, "hello")
	}
	if string(clientBuf[:]) != "world" {
		t.Errorf("client received %q, want %q", clientBuf, "world")
	}
}

func TestDialData_TimesOutWhenNothingListening(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "nonexistent.sock")

	_, err := DialData(sock, 50*time.Millisecond)
	if err == nil {
		t.Fatal("DialData() error = nil, want timeout error")
	}
}
