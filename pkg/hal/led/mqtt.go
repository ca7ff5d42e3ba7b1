package led

import (
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/blink.go/pkg/hal"
)

// Publisher publishes a retained message.
type Publisher interface {
	Pub(topic string, payload []byte) error
}

// MQTT mirrors channel changes to DeviceID/indicator/<channel>.
// Payloads are protobuf encoded google.protobuf.Struct messages
// with fields "channel", "on" and "at" (RFC 3339).
type MQTT struct {
	Publisher Publisher
	DeviceID  string
}

// NewMQTT creates the MQTT indicator.
func NewMQTT(pub Publisher, deviceID string) *MQTT {
	return &MQTT{Publisher: pub, DeviceID: deviceID}
}

// Topic returns the topic of a channel.
func (m *MQTT) Topic(ch hal.Channel) string {
	return m.DeviceID + "/indicator/" + ch.String()
}

// Set implements hal.Indicator.
func (m *MQTT) Set(ch hal.Channel, on bool) error {
	payload, err := EncodeState(ch, on)
	if err != nil {
		return err
	}
	return m.Publisher.Pub(m.Topic(ch), payload)
}

// EncodeState encodes a channel state.
func EncodeState(ch hal.Channel, on bool) ([]byte, error) {
	msg := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"channel": {Kind: &structpb.Value_StringValue{StringValue: ch.String()}},
			"on":      {Kind: &structpb.Value_BoolValue{BoolValue: on}},
			"at":      {Kind: &structpb.Value_StringValue{StringValue: ptypes.TimestampString(ptypes.TimestampNow())}},
		},
	}
	return proto.Marshal(msg)
}

// DecodeState decodes a payload produced by EncodeState.
func DecodeState(payload []byte) (ch hal.Channel, on bool, err error) {
	var msg structpb.Struct
	if err = proto.Unmarshal(payload, &msg); err != nil {
		return
	}
	if msg.Fields["channel"].GetStringValue() == hal.ChannelB.String() {
		ch = hal.ChannelB
	}
	on = msg.Fields["on"].GetBoolValue()
	return
}
