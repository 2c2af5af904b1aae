package msg

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

//go:embed messages.yml
var embeddedMessages []byte

var (
	messages map[string]string
	mu       sync.RWMutex
)

// init loads the embedded catalog; MESSAGES_FILE_PATH overrides it.
func init() {
	if path, ok := os.LookupEnv("MESSAGES_FILE_PATH"); ok {
		if err := InitFile(path); err == nil {
			return
		}
		log.Printf("Fail to read messages from %s, using embedded catalog", path)
	}
	if err := load(bytes.NewReader(embeddedMessages)); err != nil {
		log.Fatalf("Fail to read embedded messages: %v", err)
	}
}

// InitFile replaces the catalog with the messages found in filepath.
func InitFile(filepath string) error {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}
	return load(bytes.NewReader(content))
}

func load(r *bytes.Reader) error {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(r); err != nil {
		return err
	}

	parsed := make(map[string]string)
	parseMessageMap("", v.AllSettings(), parsed)

	mu.Lock()
	messages = parsed
	mu.Unlock()
	return nil
}

// parseMessageMap read recursively the yml archive
func parseMessageMap(prefix string, data map[string]interface{}, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]interface{}:
			parseMessageMap(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// GetMessage returns a msg and format
func GetMessage(key string, args ...interface{}) string {
	mu.RLock()
	msg, exists := messages[key]
	mu.RUnlock()
	if !exists {
		return fmt.Sprintf("Message not found: %s", key)
	}

	for i, arg := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		var argStr string

		if isPrimitive(arg) {
			argStr = primitiveToString(arg)
		} else {
			jsonBytes, err := json.Marshal(arg)
			if err != nil {
				argStr = fmt.Sprintf("%v", arg)
			} else {
				argStr = string(jsonBytes)
			}
		}

		msg = strings.ReplaceAll(msg, placeholder, argStr)
	}

	return msg
}

// isPrimitive checks if the provided value is of a primitive type (bool, int, uint, float, or string).
func isPrimitive(value interface{}) bool {
	if value == nil {
		return true
	}
	if _, ok := value.(error); ok {
		return true
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}

func primitiveToString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
