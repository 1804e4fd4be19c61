package entity

// TaskMessage is the queue-resident unit of work handed to the transcoding
// worker. It is never persisted; the Video row it references is its only
// durable anchor.
type TaskMessage struct {
	TaskID     string `json:"task_id"`
	VideoID    string `json:"video_id"`
	SourcePath string `json:"source_path"`
	Attempt    int    `json:"attempt"`
}
