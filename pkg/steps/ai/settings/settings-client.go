package settings

import (
	"net/http"
	"time"

	"github.com/huandu/go-clone"
	"gopkg.in/yaml.v3"
)

const DefaultTimeout = 60 * time.Second

type ClientSettings struct {
	Timeout        *time.Duration `yaml:"timeout,omitempty"`
	TimeoutSeconds *int           `yaml:"timeout_second,omitempty"`
	UserAgent      *string        `yaml:"user_agent,omitempty"`
	HTTPClient     *http.Client   `yaml:"-" json:"-"`
}

// UnmarshalYAML overrides YAML parsing to convert time.duration from int
func (cs *ClientSettings) UnmarshalYAML(value *yaml.Node) error {
	aux := struct {
		Timeout        *int    `yaml:"timeout,omitempty"`
		TimeoutSeconds *int    `yaml:"timeout_second,omitempty"`
		UserAgent      *string `yaml:"user_agent,omitempty"`
	}{}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.TimeoutSeconds != nil {
		cs.SetTimeoutSeconds(*aux.TimeoutSeconds)
	}
	if aux.Timeout != nil {
		cs.SetTimeoutSeconds(*aux.Timeout)
	}
	if aux.UserAgent != nil {
		cs.UserAgent = aux.UserAgent
	}
	return nil
}

func (cs *ClientSettings) Clone() *ClientSettings {
	// the http client is shared, not copied
	httpClient := cs.HTTPClient
	cs_ := *cs
	cs_.HTTPClient = nil
	ret := clone.Clone(&cs_).(*ClientSettings)
	ret.HTTPClient = httpClient
	return ret
}

func (cs *ClientSettings) GetTimeout() time.Duration {
	if cs.Timeout != nil && *cs.Timeout > 0 {
		return *cs.Timeout
	}
	return DefaultTimeout
}

func (cs *ClientSettings) SetTimeoutSeconds(seconds int) {
	t := time.Duration(seconds) * time.Second
	cs.Timeout = &t
	cs.TimeoutSeconds = &seconds
}

func NewClientSettings() *ClientSettings {
	ret := &ClientSettings{}
	ret.SetTimeoutSeconds(int(DefaultTimeout.Seconds()))
	return ret
}
