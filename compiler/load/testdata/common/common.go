package common

type Audit struct {
	By     string
	Reason *string
}
