package types

type ApiType string

const (
	ApiTypeGroq ApiType = "groq"
	// ApiTypeEcho answers every message with the message itself, without network access.
	ApiTypeEcho ApiType = "echo"
)

func (a ApiType) String() string {
	return string(a)
}
