package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArthurBash/telegramBot/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.New(logger.Config{Level: logger.LevelError, Output: io.Discard})
	return NewClient("test-token", server.URL, time.Second, log)
}

func TestGetMe(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottest-token/getMe") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"Categorizer","username":"categorizer_bot"}}`))
	})

	me, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() failed: %v", err)
	}
	if me.ID != 7 || me.Username != "categorizer_bot" {
		t.Errorf("me = %+v", me)
	}
}

func TestGetMeAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	})

	if _, err := client.GetMe(context.Background()); err == nil {
		t.Fatal("GetMe() succeeded on error envelope")
	} else if !strings.Contains(err.Error(), "getMe") {
		t.Errorf("error = %v, want method name in message", err)
	}
}

func TestGetUpdates(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		if got := r.Form.Get("offset"); got != "5" {
			t.Errorf("offset = %q, want 5", got)
		}
		if got := r.Form.Get("timeout"); got != "1" {
			t.Errorf("timeout = %q, want 1", got)
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":5,"message":{"message_id":1,"chat":{"id":100,"type":"private"},"text":"hola","from":{"id":42,"username":"alice"}}},
			{"update_id":6}
		]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("GetUpdates() failed: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Text != "hola" {
		t.Errorf("first update = %+v", updates[0])
	}
	if updates[1].Message != nil {
		t.Errorf("second update should carry no message: %+v", updates[1])
	}
}

func TestSendMessage(t *testing.T) {
	var gotChatID, gotText, gotMode string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		gotChatID = r.Form.Get("chat_id")
		gotText = r.Form.Get("text")
		gotMode = r.Form.Get("parse_mode")
		w.Write([]byte(`{"ok":true,"result":{"message_id":2,"chat":{"id":100,"type":"private"}}}`))
	})

	if err := client.SendMessage(context.Background(), 100, "*hola*"); err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if gotChatID != "100" || gotText != "*hola*" || gotMode != "Markdown" {
		t.Errorf("sent chat_id=%q text=%q parse_mode=%q", gotChatID, gotText, gotMode)
	}
}

func TestSendDocument(t *testing.T) {
	var gotFilename string
	var gotContent []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("bad multipart form: %v", err)
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("missing document part: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		gotContent, _ = io.ReadAll(file)
		w.Write([]byte(`{"ok":true,"result":{"message_id":3,"chat":{"id":100,"type":"private"}}}`))
	})

	err := client.SendDocument(context.Background(), 100, "categories.csv", []byte("name,keywords\n"), "export")
	if err != nil {
		t.Fatalf("SendDocument() failed: %v", err)
	}
	if gotFilename != "categories.csv" {
		t.Errorf("filename = %q", gotFilename)
	}
	if string(gotContent) != "name,keywords\n" {
		t.Errorf("content = %q", gotContent)
	}
}
