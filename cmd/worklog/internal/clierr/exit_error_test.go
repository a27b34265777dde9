// SPDX-License-Identifier: AGPL-3.0-or-later

package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, 0, ExitCodeOf(nil))
	assert.Equal(t, ExitFailure, ExitCodeOf(cause))
	assert.Equal(t, ExitUsage, ExitCodeOf(New(ExitUsage, "bad flag")))
	assert.Equal(t, ExitGit, ExitCodeOf(fmt.Errorf("outer: %w", Wrap(ExitGit, "", cause))))
	assert.Equal(t, ExitFailure, ExitCodeOf(New(0, "zero is not an error code")))
}

func TestExitError_Message(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "bad flag", New(ExitUsage, "bad flag").Error())
	assert.Equal(t, "write: boom", Wrap(ExitReportIO, "write", cause).Error())
	assert.Equal(t, "boom", Wrap(ExitReportIO, "", cause).Error())
	assert.Equal(t, "need 2 args", Newf(ExitUsage, "need %d args", 2).Error())
	assert.ErrorIs(t, Wrap(ExitGit, "", cause), cause)
}
