package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/krushiiq/apiserver/types"
)

// Event attribute keys.
const (
	AttrKind     = "kind"
	AttrSource   = "source"
	AttrRecordID = "record_id"
)

// RecordPublisher announces persisted advisory records on a channel.
type RecordPublisher struct {
	mq      *MQ
	channel string
}

func NewRecordPublisher(m *MQ, channel string) *RecordPublisher {
	return &RecordPublisher{mq: m, channel: channel}
}

// PublishRecord sends record as a JSON event.
func (p *RecordPublisher) PublishRecord(ctx context.Context, record types.AdvisoryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	attrs := map[string]string{
		AttrKind:     string(record.Kind),
		AttrSource:   string(record.Source),
		AttrRecordID: record.ID,
	}
	if _, err := p.mq.Publish(ctx, p.channel, data, attrs); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Tail delivers every record published on the channel to fn until ctx
// ends. Messages that do not decode are acknowledged and skipped.
func (p *RecordPublisher) Tail(ctx context.Context, fn func(types.AdvisoryRecord, Message)) error {
	return p.mq.Subscribe(ctx, p.channel, func(ctx context.Context, msg Message) error {
		record, err := DecodeRecord(msg)
		if err != nil {
			return nil
		}
		fn(record, msg)
		return nil
	})
}

// DecodeRecord parses an event produced by PublishRecord.
func DecodeRecord(msg Message) (types.AdvisoryRecord, error) {
	var record types.AdvisoryRecord
	if err := json.Unmarshal(msg.Data, &record); err != nil {
		return types.AdvisoryRecord{}, fmt.Errorf("decode record %s: %w", msg.ID, err)
	}
	return record, nil
}
