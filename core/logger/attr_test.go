package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/localkaam/localkaam/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("nil error produces empty attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.Error(nil)
		assert.Equal(t, slog.Attr{}, attr)
	})

	t.Run("non-nil error keyed as error", func(t *testing.T) {
		t.Parallel()

		err := errors.New("boom")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
	})
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("all nil errors produce empty attr", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	})

	t.Run("preserves order of non-nil errors", func(t *testing.T) {
		t.Parallel()

		attr := logger.Errors(errors.New("first"), nil, errors.New("third"))
		assert.Equal(t, "errors", attr.Key)

		group := attr.Value.Group()
		assert.Len(t, group, 2)
		assert.Equal(t, "0", group[0].Key)
		assert.Equal(t, "2", group[1].Key)
	})
}

func TestUserID(t *testing.T) {
	t.Parallel()

	t.Run("nil uuid produces empty attr", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Attr{}, logger.UserID(uuid.Nil))
	})

	t.Run("valid uuid keyed as user_id", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		attr := logger.UserID(id)
		assert.Equal(t, "user_id", attr.Key)
		assert.Equal(t, id.String(), attr.Value.String())
	})
}

func TestLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Location(""))
	assert.Equal(t, "location", logger.Location("Pune, India").Key)
}
