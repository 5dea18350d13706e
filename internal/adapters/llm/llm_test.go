package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/medals/internal/adapters/llm"
	. "github.com/smartystreets/goconvey/convey"
)

const completion = `{"id":"chatcmpl-1","object":"chat.completion","created":1723000000,"model":"test-model",
"choices":[{"index":0,"message":{"role":"assistant","content":"  Estados Unidos ganó 40 oros.  "},"finish_reason":"stop"}]}`

type captured struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestOpenAIGenerator(t *testing.T) {
	ctx := context.Background()

	Convey("Given no API key", t, func() {
		_, err := llm.NewOpenAI("  ")
		So(errors.Is(err, llm.ErrNotConfigured), ShouldBeTrue)
	})

	Convey("Given an endpoint that rate limits once", t, func() {
		var calls atomic.Int32
		var last atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var c captured
			_ = json.Unmarshal(body, &c)
			last.Store(c)
			if r.Header.Get("Authorization") != "Bearer secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"error":{"message":"slow down"}}`)
				return
			}
			_, _ = io.WriteString(w, completion)
		}))
		defer srv.Close()

		g, err := llm.NewOpenAI("secret",
			llm.WithBaseURL(srv.URL+"/v1/"),
			llm.WithModel("test-model"),
			llm.WithRetries(2, 0),
			llm.WithTimeout(5*time.Second),
		)
		So(err, ShouldBeNil)

		text, err := g.Generate(ctx, "¿Cuántos oros ganó Estados Unidos en 2024?", "El país United States ...")

		Convey("Then the retried completion should be returned trimmed", func() {
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Estados Unidos ganó 40 oros.")
			So(calls.Load(), ShouldEqual, 2)
		})

		Convey("Then the request should carry the system prompt and context", func() {
			c := last.Load().(captured)
			So(c.Model, ShouldEqual, "test-model")
			So(c.Messages, ShouldHaveLength, 2)
			So(c.Messages[0].Role, ShouldEqual, "system")
			So(c.Messages[1].Content, ShouldContainSubstring, "Contexto:\nEl país United States")
			So(c.Messages[1].Content, ShouldEndWith, "Pregunta: ¿Cuántos oros ganó Estados Unidos en 2024?")
		})
	})

	Convey("Given an endpoint that rejects the key", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
		}))
		defer srv.Close()

		g, err := llm.NewOpenAI("wrong", llm.WithBaseURL(srv.URL+"/v1/"), llm.WithRetries(3, 0))
		So(err, ShouldBeNil)
		_, err = g.Generate(ctx, "hola", "")

		Convey("Then it should fail without retrying", func() {
			So(errors.Is(err, llm.ErrGenerate), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given an endpoint returning no content", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, strings.Replace(completion, "  Estados Unidos ganó 40 oros.  ", "", 1))
		}))
		defer srv.Close()

		g, _ := llm.NewOpenAI("k", llm.WithBaseURL(srv.URL+"/v1/"), llm.WithRetries(0, 0))
		_, err := g.Generate(ctx, "hola", "")
		So(errors.Is(err, llm.ErrEmptyCompletion), ShouldBeTrue)
	})
}
