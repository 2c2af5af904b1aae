package targets

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/pkg/log"
)

type document struct {
	Heartbeat struct {
		Hosts        []hostEntry  `json:"hosts" yaml:"hosts"`
		RMQConsumers []queueEntry `json:"rmq_consumers" yaml:"rmq_consumers"`
	} `json:"heartbeat" yaml:"heartbeat"`
}

type hostEntry struct {
	Host string `json:"host" yaml:"host"`
	Port any    `json:"port" yaml:"port"`
	Name string `json:"name" yaml:"name"`
}

type queueEntry struct {
	Queue     string          `json:"queue" yaml:"queue"`
	VHost     string          `json:"vhost" yaml:"vhost"`
	Listeners []listenerEntry `json:"listeners" yaml:"listeners"`
}

type listenerEntry struct {
	Tag  string `json:"tag" yaml:"tag"`
	Name string `json:"name" yaml:"name"`
}

// Load reads the probe targets from a JSON or YAML file, chosen by extension.
func Load(path string) (entity.Targets, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return entity.Targets{}, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ParseYAML(content)
	default:
		return ParseJSON(content)
	}
}

func ParseJSON(content []byte) (entity.Targets, error) {
	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return entity.Targets{}, fmt.Errorf("invalid targets document: %w", err)
	}
	return doc.targets(), nil
}

func ParseYAML(content []byte) (entity.Targets, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return entity.Targets{}, fmt.Errorf("invalid targets document: %w", err)
	}
	return doc.targets(), nil
}

// targets drops entries that cannot be probed at all. An invalid port or a
// missing tag is kept so that the entry is reported as not_ok.
func (doc document) targets() entity.Targets {
	var result entity.Targets

	for i, h := range doc.Heartbeat.Hosts {
		if h.Host == "" {
			log.Warnf("Skipping host entry %d without host", i)
			continue
		}
		port, err := portOf(h.Port)
		if err != nil {
			log.Warnf("Host entry '%s' has an invalid port: %v", h.Host, err)
		}
		result.Hosts = append(result.Hosts, entity.HostTarget{Host: h.Host, Port: port, Name: h.Name})
	}

	for i, q := range doc.Heartbeat.RMQConsumers {
		if q.Queue == "" {
			log.Warnf("Skipping consumer entry %d without queue", i)
			continue
		}
		target := entity.QueueTarget{Queue: q.Queue, VHost: q.VHost}
		for _, l := range q.Listeners {
			if l.Name == "" {
				log.Warnf("Skipping listener without name on queue '%s'", q.Queue)
				continue
			}
			if l.Tag == "" {
				log.Warnf("Listener '%s' on queue '%s' has no tag and will never match", l.Name, q.Queue)
			}
			target.Listeners = append(target.Listeners, entity.Listener{Tag: l.Tag, Name: l.Name})
		}
		result.Queues = append(result.Queues, target)
	}

	return result
}

// portOf accepts a number or a numeric string.
func portOf(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return checkPort(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("port %v is not an integer", v)
		}
		return checkPort(int(v))
	case string:
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("port %q is not a number", v)
		}
		return checkPort(port)
	case nil:
		return 0, fmt.Errorf("port is missing")
	}
	return 0, fmt.Errorf("port has unsupported type %T", value)
}

func checkPort(port int) (int, error) {
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}
