package vectorutils

import (
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/vector"
	"github.com/papercomputeco/persona/pkg/vector/chroma"
	"github.com/papercomputeco/persona/pkg/vector/qdrant"
)

type NewConnectorOpts struct {
	ProviderType string
	TargetURL    string
	Dimensions   int
	Logger       *zap.Logger
}

func NewConnector(o *NewConnectorOpts) (vector.Connector, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewConnector(chroma.Config{
			URL: o.TargetURL,
		}, o.Logger)
	case "qdrant":
		host, port, useTLS, err := splitTarget(o.TargetURL)
		if err != nil {
			return nil, err
		}
		return qdrant.NewConnector(qdrant.Config{
			Host:       host,
			Port:       port,
			UseTLS:     useTLS,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitTarget parses a target like "http://localhost:6334" or
// "localhost:6334" into qdrant connection parts.
func splitTarget(target string) (host string, port int, useTLS bool, err error) {
	u, parseErr := url.Parse(target)
	if parseErr != nil || u.Host == "" {
		// Bare host[:port] form.
		u = &url.URL{Host: target}
	}

	host = u.Hostname()
	if host == "" {
		return "", 0, false, fmt.Errorf("invalid vector store target: %q", target)
	}

	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid vector store target port: %q", p)
		}
	}

	return host, port, u.Scheme == "https", nil
}
