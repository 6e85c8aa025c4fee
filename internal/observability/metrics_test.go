package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIncrementsOutcomeCounter(t *testing.T) {
	duplicate := testutil.ToFloat64(SignupCounter(OutcomeDuplicate))
	success := testutil.ToFloat64(SignupCounter(OutcomeSuccess))
	notFound := testutil.ToFloat64(UnregisterCounter(OutcomeNotFound))

	RecordSignup(OutcomeDuplicate)
	RecordSignup(OutcomeDuplicate)
	RecordUnregister(OutcomeNotFound)

	assert.Equal(t, duplicate+2, testutil.ToFloat64(SignupCounter(OutcomeDuplicate)))
	assert.Equal(t, success, testutil.ToFloat64(SignupCounter(OutcomeSuccess)))
	assert.Equal(t, notFound+1, testutil.ToFloat64(UnregisterCounter(OutcomeNotFound)))
}
