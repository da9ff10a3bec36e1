// Package replay 回放抓包字节流，校验解码与分类结果
package replay

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// Suite 回放套件
type Suite struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Protocol    Protocol `yaml:"protocol" json:"protocol"`
	Scenarios   []Case   `yaml:"scenarios" json:"scenarios"`
	Source      string   `yaml:"-" json:"source,omitempty"`
}

// Protocol 帧结构覆盖项，留空使用默认值
type Protocol struct {
	Header     string `yaml:"header" json:"header,omitempty"`
	ByteOrder  string `yaml:"byte_order" json:"byte_order,omitempty"`
	MaxDataLen int    `yaml:"max_data_len" json:"max_data_len,omitempty"`
	Capacity   int    `yaml:"buffer_capacity" json:"buffer_capacity,omitempty"`
}

// Case 单个回放用例：按顺序喂入 chunks，期望依次得到 expect
type Case struct {
	Name   string   `yaml:"name" json:"name"`
	Chunks []string `yaml:"chunks" json:"chunks"`
	Expect []Expect `yaml:"expect" json:"expect"`
	// 期望的解码统计，未填写的字段不校验
	Stats *StatsExpect `yaml:"stats,omitempty" json:"stats,omitempty"`
}

// Expect 期望的指令
type Expect struct {
	Cmd  string `yaml:"cmd" json:"cmd"`
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Data string `yaml:"data,omitempty" json:"data,omitempty"`
}

// StatsExpect 期望的解码统计
type StatsExpect struct {
	Frames         *uint64 `yaml:"frames,omitempty" json:"frames,omitempty"`
	HeaderResync   *uint64 `yaml:"header_resync,omitempty" json:"header_resync,omitempty"`
	LengthResync   *uint64 `yaml:"length_resync,omitempty" json:"length_resync,omitempty"`
	ChecksumResync *uint64 `yaml:"checksum_resync,omitempty" json:"checksum_resync,omitempty"`
	Buffered       *int64  `yaml:"buffered,omitempty" json:"buffered,omitempty"`
}

// Layout 套件帧结构
func (s *Suite) Layout() (door.Layout, error) {
	def := door.DefaultLayout()
	p := config.ProtocolConfig{
		Header:         s.Protocol.Header,
		ByteOrder:      s.Protocol.ByteOrder,
		MaxDataLen:     s.Protocol.MaxDataLen,
		BufferCapacity: s.Protocol.Capacity,
	}
	if p.Header == "" {
		p.Header = hex.EncodeToString(def.Header)
	}
	if p.MaxDataLen == 0 {
		p.MaxDataLen = def.MaxDataLen
	}
	if p.BufferCapacity == 0 {
		p.BufferCapacity = def.Capacity
	}
	return p.Layout()
}

// ParseHex 解析 hex 字符串，允许空格、换行与 0x 前缀
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", "\n", "", "\t", "", "\r", "", "0x", "", "0X", "").Replace(s)
	return hex.DecodeString(s)
}

// Parse 解析 YAML 套件
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal suite: %w", err)
	}
	for i, c := range s.Scenarios {
		for j, chunk := range c.Chunks {
			if _, err := ParseHex(chunk); err != nil {
				return nil, fmt.Errorf("scenario %q chunk %d: %w", c.Name, j, err)
			}
		}
		if c.Name == "" {
			s.Scenarios[i].Name = fmt.Sprintf("case-%d", i+1)
		}
	}
	return &s, nil
}

// LoadFile 加载单个套件文件
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// LoadDir 加载目录下所有 .yaml/.yml 套件
func LoadDir(dir string) ([]*Suite, error) {
	var suites []*Suite
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if d.IsDir() || (ext != ".yaml" && ext != ".yml") {
			return nil
		}
		s, err := LoadFile(path)
		if err != nil {
			return err
		}
		suites = append(suites, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suites, nil
}
