package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteMapsEveryIntent(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   HandlerName
	}{
		{"draft", IntentDraftEmail, HandlerDraftEmail},
		{"retrieve", IntentRetrieveInfo, HandlerRetrieveInfo},
		{"manage", IntentManageInbox, HandlerManageInbox},
		{"read", IntentReadEmail, HandlerReadEmail},
		{"unknown", IntentUnknown, HandlerUnknown},
		{"out of vocabulary value", Intent("SEND_FAX"), HandlerUnknown},
		{"empty value", Intent(""), HandlerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.intent))
		})
	}
}

func TestStageForCoversEveryHandler(t *testing.T) {
	want := map[HandlerName]Stage{
		HandlerDraftEmail:   StageDrafting,
		HandlerRetrieveInfo: StageRetrieving,
		HandlerManageInbox:  StageManaging,
		HandlerReadEmail:    StageReading,
		HandlerUnknown:      StageUnknownHandling,
	}
	for name, stage := range want {
		assert.Equal(t, stage, stageFor(name))
	}
}
