package worker

import "github.com/bytedance/sonic"

type discoverURLsPayload struct {
	SourceSlug string `json:"source_slug"`
	BaseURL    string `json:"base_url"`
}

type fetchPagePayload struct {
	SourceSlug string `json:"source_slug"`
	URL        string `json:"url"`
}

type parseSnapshotPayload struct {
	SourceSlug  string `json:"source_slug"`
	SnapshotID  string `json:"snapshot_id"`
	URL         string `json:"url"`
	StoragePath string `json:"storage_path"`
}

type gradeMatchPayload struct {
	MatchID string `json:"match_id"`
}

type resyncPayload struct {
	SourceSlug string `json:"source_slug"`
}

func decodePayload[T any](raw string) (T, error) {
	var v T
	err := sonic.Unmarshal([]byte(raw), &v)
	return v, err
}

func encodePayload(v any) (string, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
