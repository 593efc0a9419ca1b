package service

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"gestion-formacion/backend/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 将 iCalendar (RFC 5545) 节假日日历解析为日期列表：
//   - 每个 VEVENT 的 DTSTART 日期即一个节假日
//   - 带 COUNT 或 UNTIL 的 RRULE 按规则展开，EXDATE 排除
//   - 无终止条件的 RRULE 只取首次发生，避免无限展开
//   - 结果去重并按日期升序
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize   = 5 * 1024 * 1024 // 5MB
	icsMaxOcurrences = 366
	bogotaTimezone   = "America/Bogota"
)

// ParseFestivosICS 解析节假日日历
func ParseFestivosICS(reader io.Reader) ([]model.Date, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("formato ICS inválido: %w", err)
	}

	loc, err := time.LoadLocation(bogotaTimezone)
	if err != nil {
		loc = time.UTC
	}

	seen := make(map[string]bool)
	var result []model.Date
	for _, evt := range cal.Events() {
		dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}
		for _, t := range expandOcurrencias(evt, dtStart, loc) {
			d := model.NewDate(t)
			key := d.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j].Time) })
	return result, nil
}

// expandOcurrencias 根据 RRULE / EXDATE 展开事件的所有发生日期
func expandOcurrencias(evt *ics.VEvent, dtStart time.Time, loc *time.Location) []time.Time {
	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return []time.Time{dtStart}
	}

	rule := parseRRule(rruleProp.Value)
	if rule.count == 0 && rule.until.IsZero() {
		return []time.Time{dtStart}
	}

	step := rule.step()
	if step == nil {
		return []time.Time{dtStart}
	}

	exDates := parseExDates(evt, loc)
	interval := rule.interval
	if interval < 1 {
		interval = 1
	}

	var out []time.Time
	current := dtStart
	for n := 0; n < icsMaxOcurrences; n++ {
		if rule.count > 0 && n >= rule.count {
			break
		}
		if !rule.until.IsZero() && current.After(rule.until) {
			break
		}
		if !exDates[current.Format("20060102")] {
			out = append(out, current)
		}
		current = step(current, interval)
	}
	return out
}

// rruleParams RRULE 解析结果
type rruleParams struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// step 返回按频率前进 n 个单位的函数，不支持的频率返回 nil
func (r rruleParams) step() func(time.Time, int) time.Time {
	switch r.freq {
	case "DAILY":
		return func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }
	case "WEEKLY":
		return func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) }
	case "MONTHLY":
		return func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) }
	case "YEARLY":
		return func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) }
	}
	return nil
}

// parseRRule 解析 RRULE 字符串（如 FREQ=YEARLY;COUNT=5;INTERVAL=1）
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "INTERVAL":
			fmt.Sscanf(kv[1], "%d", &r.interval)
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &r.count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
			}
			r.until = t
		}
	}
	return r
}

// parseExDates 解析事件中所有 EXDATE（可能以逗号分隔多个值）
func parseExDates(evt *ics.VEvent, loc *time.Location) map[string]bool {
	exDates := make(map[string]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyExdate) {
			continue
		}
		for _, v := range strings.Split(prop.Value, ",") {
			if t, ok := parseICSValue(strings.TrimSpace(v), "", loc); ok {
				exDates[t.Format("20060102")] = true
			}
		}
	}
	return exDates
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("falta la propiedad %s", propName)
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, ok := parseICSValue(prop.Value, tzid, loc); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("fecha ICS inválida: %s", prop.Value)
}

// parseICSValue 支持 UTC、带 TZID 的本地时间与纯日期三种格式
func parseICSValue(val, tzid string, loc *time.Location) (time.Time, bool) {
	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(layout, "Z"):
			return t.In(loc), true
		case layout == "20060102":
			// 全天事件不做时区换算
			return t, true
		case tzid != "":
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), true
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	return time.Time{}, false
}
