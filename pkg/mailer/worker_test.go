package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maniblazestarboy/api-linkado/pkg/mailer/templates"
)

type sent struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestWorker_RendersTemplate(t *testing.T) {
	fs := &fakeSender{}
	w := NewWorker(fs)

	job := EmailJob{
		To:       "team@linkado.test",
		Template: templates.SubmissionReceived,
		Data:     map[string]any{"Name": "Loja Azul", "Plan": "premium", "Instagram": "@lojaazul", "AdminURL": "http://admin.test"},
	}
	require.NoError(t, w.Handle(context.Background(), mustJSON(t, job)))

	require.Len(t, fs.sent, 1)
	assert.Equal(t, "team@linkado.test", fs.sent[0].to)
	assert.Contains(t, fs.sent[0].subject, "Loja Azul")
	assert.NotEmpty(t, fs.sent[0].html)
}

func TestWorker_RawMessage(t *testing.T) {
	fs := &fakeSender{}
	w := NewWorker(fs)

	job := EmailJob{To: "a@b.test", Subject: "hi", Text: "hello"}
	require.NoError(t, w.Handle(context.Background(), mustJSON(t, job)))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, "hello", fs.sent[0].text)
}

func TestWorker_BadJobs(t *testing.T) {
	w := NewWorker(&fakeSender{})

	cases := map[string][]byte{
		"not json":         []byte("{"),
		"no recipient":     mustJSON(t, EmailJob{Subject: "x", Text: "y"}),
		"unknown template": mustJSON(t, EmailJob{To: "a@b.test", Template: "nope"}),
		"empty message":    mustJSON(t, EmailJob{To: "a@b.test"}),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, w.Handle(context.Background(), body), ErrBadJob)
		})
	}
}

func TestWorker_SendFailureIsRetryable(t *testing.T) {
	w := NewWorker(&fakeSender{err: errors.New("mailgun down")})

	err := w.Handle(context.Background(), mustJSON(t, EmailJob{To: "a@b.test", Subject: "x", Text: "y"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
