package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yamiko-app/yamiko/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFoundError},
		{"wrapped user not found", fmt.Errorf("load: %w", domain.ErrUserNotFound), http.StatusNotFound, ErrMsgUserNotFoundError},
		{"validation", domain.NewValidationError("amount", domain.ErrMsgAmountNotPositive), http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"database", fmt.Errorf("%w: commit: %w", domain.ErrDatabaseError, errors.New("conn reset")), http.StatusInternalServerError, ErrMsgGenericServerError},
		{"unknown", errors.New("secret internal detail"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestBufferPool_DropsOversizedBuffers(t *testing.T) {
	buf := getBuffer()
	assert.Zero(t, buf.Len())
	buf.WriteString("payload")
	putBuffer(buf)

	again := getBuffer()
	assert.Zero(t, again.Len(), "pooled buffers come back reset")
	putBuffer(again)

	big := getBuffer()
	big.Grow(maxPooledBufferSize + 1)
	assert.NotPanics(t, func() { putBuffer(big) })
}
