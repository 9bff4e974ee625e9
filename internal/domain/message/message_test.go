package message

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/lostfound/internal/domain"
)

func validMessage() Message {
	return Message{Name: " Ann ", Email: "ann@example.com", Subject: "Lost keys", Body: " Any news? "}
}

func TestValidate_Trims(t *testing.T) {
	m := validMessage()
	require.NoError(t, m.Validate())
	assert.Equal(t, "Ann", m.Name)
	assert.Equal(t, "Any news?", m.Body)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Message)
	}{
		{"missing name", func(m *Message) { m.Name = " " }},
		{"missing subject", func(m *Message) { m.Subject = "" }},
		{"missing body", func(m *Message) { m.Body = "" }},
		{"phone instead of email", func(m *Message) { m.Email = "12345678901" }},
		{"long body", func(m *Message) { m.Body = strings.Repeat("x", MaxBodyLen+1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := validMessage()
			tc.mutate(&m)
			err := m.Validate()
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusUnread.Valid())
	assert.True(t, StatusRead.Valid())
	assert.False(t, Status("archived").Valid())
}
