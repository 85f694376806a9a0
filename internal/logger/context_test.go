package logger

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	fallback, _ := logtest.NewNullLogger()
	scoped, _ := logtest.NewNullLogger()
	entry := scoped.WithField("request_id", "abc")

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := WithContext(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx, fallback))
}
