package domain

import (
	"bytes"
	"encoding/json"
)

type snapshotJSON struct {
	IOS        PlatformStatus `json:"ios"`
	AAB        PlatformStatus `json:"aab"`
	Amazon     PlatformStatus `json:"amazon"`
	Windows    PlatformStatus `json:"windows"`
	IOSRun     *int64         `json:"iosRun"`
	AABRun     *int64         `json:"aabRun"`
	AmazonRun  *int64         `json:"amazonRun"`
	WindowsRun *int64         `json:"windowsRun"`
}

// MarshalJSON renders only the platform statuses and run ids; the app id
// is carried by the enclosing key or URL.
func (s AppSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		IOS: s.IOS.Status, AAB: s.AAB.Status, Amazon: s.Amazon.Status, Windows: s.Windows.Status,
		IOSRun: s.IOS.RunID, AABRun: s.AAB.RunID, AmazonRun: s.Amazon.RunID, WindowsRun: s.Windows.RunID,
	})
}

// MarshalJSON writes an object keyed by app id, keeping roster order.
func (s StatusSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.App)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Snapshot)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
