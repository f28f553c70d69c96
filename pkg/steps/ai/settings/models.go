package settings

// The models the Groq engine accepts.
const (
	ModelLlama3_8B   = "llama3-8b-8192"
	ModelLlama3_70B  = "llama3-70b-8192"
	ModelMixtral8x7B = "mixtral-8x7b-32768"
	ModelGemma7B     = "gemma-7b-it"
)

const DefaultModel = ModelLlama3_8B

// AllowedModels lists the accepted model identifiers, default first.
var AllowedModels = []string{
	ModelLlama3_8B,
	ModelLlama3_70B,
	ModelMixtral8x7B,
	ModelGemma7B,
}

func IsAllowedModel(model string) bool {
	for _, m := range AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}
