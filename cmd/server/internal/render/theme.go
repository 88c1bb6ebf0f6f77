package render

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBorder 所有预设（简约灰除外）和自定义主题共用的边框色
const DefaultBorder = "#64748b"

// CustomThemeName 由单一主色派生的主题名
const CustomThemeName = "Custom"

// ErrInvalidColor 颜色不是 #rrggbb 格式
var ErrInvalidColor = errors.New("INVALID_COLOR")

// ErrUnknownTheme 主题名既不是预设也不在主题文件中
var ErrUnknownTheme = errors.New("UNKNOWN_THEME")

// Theme 周报表格配色
type Theme struct {
	Name      string `json:"name" yaml:"name"`
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Highlight string `json:"highlight" yaml:"highlight"`
	Border    string `json:"border" yaml:"border"`
}

var presets = []Theme{
	{Name: "经典绿", Primary: "#9bbb59", Secondary: "#bfdcae", Highlight: "#e5f0d9", Border: DefaultBorder},
	{Name: "商务蓝", Primary: "#3b82f6", Secondary: "#93c5fd", Highlight: "#eff6ff", Border: DefaultBorder},
	{Name: "活力橙", Primary: "#f97316", Secondary: "#fdba74", Highlight: "#fff7ed", Border: DefaultBorder},
	{Name: "简约灰", Primary: "#475569", Secondary: "#94a3b8", Highlight: "#f1f5f9", Border: "#334155"},
}

// Presets 返回内置主题，第一个为默认主题
func Presets() []Theme {
	return append([]Theme(nil), presets...)
}

// DefaultTheme 默认主题（经典绿）
func DefaultTheme() Theme {
	return presets[0]
}

// ParseHex 解析 #rrggbb
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Lighten 将每个通道向白色移动 percent%，结果为小写 #rrggbb
func Lighten(hex string, percent float64) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	mix := func(c uint8) uint8 {
		v := math.Round(float64(c) + (255-float64(c))*percent/100)
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(r), mix(g), mix(b)), nil
}

// DeriveTheme 由主色派生自定义主题：secondary 提亮 40%，highlight 提亮 90%
func DeriveTheme(primary string) (Theme, error) {
	secondary, err := Lighten(primary, 40)
	if err != nil {
		return Theme{}, err
	}
	highlight, err := Lighten(primary, 90)
	if err != nil {
		return Theme{}, err
	}
	return Theme{
		Name:      CustomThemeName,
		Primary:   strings.ToLower(strings.TrimSpace(primary)),
		Secondary: secondary,
		Highlight: highlight,
		Border:    DefaultBorder,
	}, nil
}

// Validate 检查所有颜色字段
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("theme name is required")
	}
	for field, c := range map[string]string{
		"primary":   t.Primary,
		"secondary": t.Secondary,
		"highlight": t.Highlight,
		"border":    t.Border,
	} {
		if _, _, _, err := ParseHex(c); err != nil {
			return fmt.Errorf("theme %s %s: %w", t.Name, field, err)
		}
	}
	return nil
}

// Palette 可选主题集合：内置预设加上配置文件中的主题
type Palette struct {
	themes []Theme
}

// NewPalette 以内置预设创建主题集合，extra 中同名主题覆盖预设
func NewPalette(extra ...Theme) *Palette {
	p := &Palette{themes: Presets()}
	for _, t := range extra {
		replaced := false
		for i := range p.themes {
			if p.themes[i].Name == t.Name {
				p.themes[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			p.themes = append(p.themes, t)
		}
	}
	return p
}

// Themes 返回全部主题
func (p *Palette) Themes() []Theme {
	return append([]Theme(nil), p.themes...)
}

// Lookup 按名称查找主题
func (p *Palette) Lookup(name string) (Theme, bool) {
	for _, t := range p.themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Resolve 根据主题名或自定义主色确定当前主题
// primary 非空时优先派生自定义主题；两者都为空时返回默认主题
func (p *Palette) Resolve(name, primary string) (Theme, error) {
	if strings.TrimSpace(primary) != "" {
		return DeriveTheme(primary)
	}
	if name == "" {
		return DefaultTheme(), nil
	}
	t, ok := p.Lookup(name)
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	return t, nil
}

type themeFile struct {
	Themes []Theme `yaml:"themes"`
}

// LoadThemes 从 YAML 文件读取额外主题，缺省 border 使用 DefaultBorder
//
//	themes:
//	  - name: 深海蓝
//	    primary: "#1e3a8a"
//	    secondary: "#93c5fd"
//	    highlight: "#eff6ff"
func LoadThemes(path string) ([]Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes file: %w", err)
	}

	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse themes file: %w", err)
	}

	for i := range f.Themes {
		t := &f.Themes[i]
		if t.Border == "" {
			t.Border = DefaultBorder
		}
		if t.Secondary == "" || t.Highlight == "" {
			derived, err := DeriveTheme(t.Primary)
			if err != nil {
				return nil, fmt.Errorf("theme %s: %w", t.Name, err)
			}
			if t.Secondary == "" {
				t.Secondary = derived.Secondary
			}
			if t.Highlight == "" {
				t.Highlight = derived.Highlight
			}
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Themes, nil
}
