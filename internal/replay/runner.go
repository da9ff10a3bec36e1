package replay

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// Result 单个用例的回放结果
type Result struct {
	Suite    string     `json:"suite"`
	Case     string     `json:"case"`
	Passed   bool       `json:"passed"`
	Failures []string   `json:"failures,omitempty"`
	Frames   []string   `json:"frames"`
	Commands []string   `json:"commands"`
	Stats    door.Stats `json:"stats"`
}

// Decode 将字节块依次喂入解码器，返回帧、分类成功的指令与统计
func Decode(layout door.Layout, chunks [][]byte) ([]door.RawFrame, []door.Command, door.Stats) {
	dec := door.NewStreamDecoder(layout, nil)
	cls := door.NewClassifier(layout)
	var frames []door.RawFrame
	var cmds []door.Command
	for _, chunk := range chunks {
		for _, raw := range dec.Feed(chunk) {
			frames = append(frames, raw)
			if c, ok := cls.Classify(raw); ok {
				cmds = append(cmds, c)
			}
		}
	}
	return frames, cmds, dec.Stats()
}

// Run 执行套件中的全部用例
func Run(s *Suite) ([]Result, error) {
	layout, err := s.Layout()
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(s.Scenarios))
	for _, c := range s.Scenarios {
		results = append(results, runCase(s.Name, layout, c))
	}
	return results, nil
}

func runCase(suite string, layout door.Layout, c Case) Result {
	res := Result{Suite: suite, Case: c.Name}
	chunks := make([][]byte, 0, len(c.Chunks))
	for _, s := range c.Chunks {
		b, _ := ParseHex(s)
		chunks = append(chunks, b)
	}
	frames, cmds, stats := Decode(layout, chunks)
	res.Stats = stats
	for _, f := range frames {
		res.Frames = append(res.Frames, strings.ToUpper(hex.EncodeToString(f)))
	}
	for _, cmd := range cmds {
		res.Commands = append(res.Commands, fmt.Sprintf("%02X:%s", cmd.Cmd, cmd.Kind))
	}

	if len(cmds) != len(c.Expect) {
		res.fail("expected %d commands, got %d", len(c.Expect), len(cmds))
	}
	for i := 0; i < len(cmds) && i < len(c.Expect); i++ {
		res.check(i, c.Expect[i], cmds[i])
	}
	if c.Stats != nil {
		res.checkStats(*c.Stats, stats)
	}
	res.Passed = len(res.Failures) == 0
	return res
}

func (r *Result) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

func (r *Result) check(i int, want Expect, got door.Command) {
	if gotCmd := fmt.Sprintf("%02X", got.Cmd); !strings.EqualFold(want.Cmd, gotCmd) {
		r.fail("#%d cmd: want %s, got %s", i, want.Cmd, gotCmd)
	}
	if want.Kind != "" && want.Kind != got.Kind.String() {
		r.fail("#%d kind: want %s, got %s", i, want.Kind, got.Kind)
	}
	if want.Data != "" {
		wantData, err := ParseHex(want.Data)
		if err != nil {
			r.fail("#%d data: bad hex %q", i, want.Data)
			return
		}
		if !strings.EqualFold(hex.EncodeToString(wantData), hex.EncodeToString(got.Data)) {
			r.fail("#%d data: want % X, got % X", i, wantData, got.Data)
		}
	}
}

func (r *Result) checkStats(want StatsExpect, got door.Stats) {
	checkU := func(name string, w *uint64, g uint64) {
		if w != nil && *w != g {
			r.fail("stats.%s: want %d, got %d", name, *w, g)
		}
	}
	checkU("frames", want.Frames, got.Frames)
	checkU("header_resync", want.HeaderResync, got.HeaderResync)
	checkU("length_resync", want.LengthResync, got.LengthResync)
	checkU("checksum_resync", want.ChecksumResync, got.ChecksumResync)
	if want.Buffered != nil && *want.Buffered != got.Buffered {
		r.fail("stats.buffered: want %d, got %d", *want.Buffered, got.Buffered)
	}
}
