// Package dialect defines the regional Chinese speech varieties supported by
// huaxiazi, the translation direction, and the static dialect atlas.
//
// A Dialect is identified by a stable ASCII code (used in config files, CLI
// flags and persisted history) and carries a display label in Chinese. The
// label is what the remote model sees in prompts.
package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDialect is returned by Parse when the input names no dialect.
var ErrUnknownDialect = errors.New("dialect: unknown dialect")

// Dialect identifies one regional speech variety.
type Dialect int

const (
	Cantonese Dialect = iota + 1
	Teochew
	Shanghainese
	Suzhounese
	Hokkien
	Sichuanese
	Beijing
	Northeastern
	Hakka
	Hunanese
	Gan
	Jin
	Hainanese
	Fuzhou
	Shandong
)

type info struct {
	code         string
	label        string
	region       string
	romanization string
}

var infos = map[Dialect]info{
	Cantonese:    {"cantonese", "粤语 (广州/香港)", "广州/香港", "粤拼 (Jyutping)"},
	Teochew:      {"teochew", "潮汕话 (潮州/汕头)", "潮州/汕头", "潮州话拼音方案"},
	Shanghainese: {"shanghainese", "吴语 (上海)", "上海", "吴语拼音"},
	Suzhounese:   {"suzhounese", "吴语 (苏州)", "苏州", "吴语拼音"},
	Hokkien:      {"hokkien", "闽南语 (泉漳/台湾)", "泉州/漳州/台湾", "白话字 (Pe̍h-ōe-jī) 或台罗拼音"},
	Sichuanese:   {"sichuanese", "西南官话 (四川/重庆)", "四川/重庆", "四川话拼音 (带调值)"},
	Beijing:      {"beijing", "北京话", "北京", "汉语拼音 (标注儿化)"},
	Northeastern: {"northeastern", "东北话 (黑吉辽)", "黑龙江/吉林/辽宁", "汉语拼音"},
	Hakka:        {"hakka", "客家语 (梅州/赣南)", "梅州/赣南", "客家话拼音方案"},
	Hunanese:     {"hunanese", "湘语 (长沙)", "长沙", "湘语拼音 (带调值)"},
	Gan:          {"gan", "赣语 (南昌)", "南昌", "赣语拼音 (带调值)"},
	Jin:          {"jin", "晋语 (太原)", "太原", "晋语拼音 (标注入声)"},
	Hainanese:    {"hainanese", "海南话", "海南", "海南话拼音方案"},
	Fuzhou:       {"fuzhou", "闽东语 (福州)", "福州", "平话字 (Bàng-uâ-cê)"},
	Shandong:     {"shandong", "胶辽官话 (山东)", "胶东半岛", "汉语拼音 (带调值)"},
}

// All returns every dialect in declaration order.
func All() []Dialect {
	ds := make([]Dialect, 0, len(infos))
	for d := Cantonese; d <= Shandong; d++ {
		ds = append(ds, d)
	}
	return ds
}

// Valid reports whether d is a known dialect.
func (d Dialect) Valid() bool {
	_, ok := infos[d]
	return ok
}

// Code returns the stable ASCII identifier, e.g. "cantonese".
func (d Dialect) Code() string {
	if i, ok := infos[d]; ok {
		return i.code
	}
	return ""
}

// Label returns the Chinese display label, e.g. "粤语 (广州/香港)".
func (d Dialect) Label() string {
	if i, ok := infos[d]; ok {
		return i.label
	}
	return ""
}

// Region returns the geographic area the dialect is spoken in.
func (d Dialect) Region() string {
	if i, ok := infos[d]; ok {
		return i.region
	}
	return ""
}

// Romanization returns the conventional romanization used for phonetic
// annotation of this dialect.
func (d Dialect) Romanization() string {
	if i, ok := infos[d]; ok {
		return i.romanization
	}
	return ""
}

func (d Dialect) String() string {
	if l := d.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// Parse resolves a code (case-insensitive) or an exact display label.
func Parse(s string) (Dialect, error) {
	s = strings.TrimSpace(s)
	for _, d := range All() {
		i := infos[d]
		if strings.EqualFold(s, i.code) || s == i.label {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// MarshalText implements encoding.TextMarshaler using the dialect code.
func (d Dialect) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDialect, int(d))
	}
	return []byte(d.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
