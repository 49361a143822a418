package config

import (
	"encoding/json"

	"gopkg.in/yaml.v2"
)

// Serializer 定义序列化/反序列化接口
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	FileExts() []string // 支持的文件扩展名
	Name() string
}

// YAMLSerializer YAML格式
type YAMLSerializer struct{}

func (YAMLSerializer) Marshal(v interface{}) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLSerializer) Unmarshal(data []byte, v interface{}) error { return yaml.UnmarshalStrict(data, v) }
func (YAMLSerializer) FileExts() []string                         { return []string{".yml", ".yaml"} }
func (YAMLSerializer) Name() string                               { return "yaml" }

// JSONSerializer JSON格式
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v interface{}) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (JSONSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (JSONSerializer) FileExts() []string                         { return []string{".json"} }
func (JSONSerializer) Name() string                               { return "json" }
