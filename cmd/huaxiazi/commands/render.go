package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/haivivi/huaxiazi/pkg/archive"
	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/session"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

const cardWidth = 64

var styles = cli.NewStyles(cli.DefaultTheme)

func printCard(w io.Writer, c cli.Card) {
	c.Styles = styles
	fmt.Fprintln(w, c.Render(cardWidth))
}

// translation is the structured form of one translate run.
type translation struct {
	Input   string           `json:"input" yaml:"input"`
	Dialect dialect.Dialect  `json:"dialect" yaml:"dialect"`
	Mode    dialect.Mode     `json:"mode" yaml:"mode"`
	Result  translate.Result `json:"result" yaml:"result"`
}

func resultCard(t translation) cli.Card {
	label := "方言译文"
	if t.Mode == dialect.ToMandarin {
		label = "普通话译文"
	}
	c := cli.Card{
		Title:  t.Dialect.Label(),
		Status: t.Mode.Arrow(),
		Sections: []cli.Section{
			{Label: label, Lines: []string{t.Result.TranslatedText}},
			{Label: "原文", Lines: []string{t.Input}},
		},
	}
	if t.Result.Phonetic != "" {
		c.Sections = append(c.Sections, cli.Section{Label: "发音", Lines: []string{t.Result.Phonetic}})
	}
	if t.Result.Meaning != "" {
		c.Sections = append(c.Sections, cli.Section{Label: "释义", Lines: []string{t.Result.Meaning}})
	}
	return c
}

func atlasCard(it dialect.AtlasItem) cli.Card {
	features := make([]string, 0, len(it.Features))
	for _, f := range it.Features {
		features = append(features, "· "+f)
	}
	return cli.Card{
		Title:  it.Name,
		Status: it.Region,
		Sections: []cli.Section{
			{Label: "经典", Lines: []string{it.ClassicPhrase, it.ClassicMeaning}},
			{Label: "简介", Lines: []string{it.Description}},
			{Label: "特征", Lines: features},
			{Label: "源流", Lines: []string{it.History}},
		},
		Footer: "huaxiazi atlas speak " + it.Name,
	}
}

func profileCard(p session.Profile) cli.Card {
	status := ""
	if p.IdentityVerified {
		status = "已认证"
	}
	return cli.Card{
		Title:  strings.TrimSpace(p.Avatar + " " + p.Nickname),
		Status: status,
		Sections: []cli.Section{
			{Label: "签名", Lines: []string{p.Bio}},
			{Label: "资料", Lines: []string{
				"家乡  " + p.Hometown,
				"偏好  " + p.DialectPreference,
				"加入  " + p.JoinedDate,
			}},
		},
	}
}

type historyTable []session.HistoryItem

func (t historyTable) Header() []string {
	return []string{"TIME", "DIALECT", "MODE", "ORIGINAL", "TRANSLATION"}
}

func (t historyTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, it := range t {
		rows = append(rows, []string{
			it.Timestamp.Format("01-02 15:04"),
			it.Dialect.Label(),
			it.Mode.Arrow(),
			cli.Truncate(it.OriginalText, 20),
			cli.Truncate(it.TranslatedText, 24),
		})
	}
	return rows
}

type dialectRow struct {
	Code         string `json:"code" yaml:"code"`
	Label        string `json:"label" yaml:"label"`
	Region       string `json:"region" yaml:"region"`
	Category     string `json:"category" yaml:"category"`
	Romanization string `json:"romanization" yaml:"romanization"`
}

type dialectTable []dialectRow

func (t dialectTable) Header() []string {
	return []string{"CODE", "LABEL", "CATEGORY", "ROMANIZATION"}
}

func (t dialectTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		rows = append(rows, []string{d.Code, d.Label, d.Category, d.Romanization})
	}
	return rows
}

type atlasTable []dialect.AtlasItem

func (t atlasTable) Header() []string { return []string{"NAME", "DIALECT", "REGION", "CLASSIC"} }

func (t atlasTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, it := range t {
		rows = append(rows, []string{it.Name, it.Dialect.Code(), it.Region, it.ClassicPhrase})
	}
	return rows
}

type clipTable []archive.Clip

func (t clipTable) Header() []string { return []string{"PATH", "DIALECT", "DAY", "SIZE"} }

func (t clipTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, c := range t {
		rows = append(rows, []string{c.Path, c.Dialect.Code(), c.Day, cli.FormatBytes(c.Size)})
	}
	return rows
}

type deviceTable []audioDevice

func (t deviceTable) Header() []string {
	return []string{"INDEX", "NAME", "IN", "OUT", "RATE", "DEFAULT"}
}

func (t deviceTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		var def []string
		if d.DefaultInput {
			def = append(def, "in")
		}
		if d.DefaultOutput {
			def = append(def, "out")
		}
		rows = append(rows, []string{
			strconv.Itoa(d.Index),
			d.Name,
			strconv.Itoa(d.InputChannels),
			strconv.Itoa(d.OutputChannels),
			strconv.FormatFloat(d.DefaultSampleRate, 'f', 0, 64),
			strings.Join(def, ","),
		})
	}
	return rows
}
