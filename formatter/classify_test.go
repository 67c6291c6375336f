package formatter

import (
	"testing"

	"github.com/philipp01105/easylog/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  core.Record
		want kind
	}{
		{"plain", core.Record{Channel: "app", Message: "hello"}, 0},
		{
			"deprecation by type",
			core.Record{Channel: "php", Context: core.Map{core.F("type", userDeprecated)}},
			kindDeprecation,
		},
		{
			"deprecation by message",
			core.Record{Channel: "php", Message: "Method X is deprecated since 5.1"},
			kindDeprecation,
		},
		{
			"deprecation needs the php channel",
			core.Record{Channel: "app", Message: "deprecated since 5.1"},
			0,
		},
		{
			"deprecation type must be an int",
			core.Record{Channel: "php", Context: core.Map{core.F("type", "16384")}},
			0,
		},
		{"event stop", core.Record{Channel: "app", Message: eventStopMessage}, kindEventStop},
		{"event notify channel", core.Record{Channel: channelEventNotify}, kindEventNotify},
		{
			"event notify by context",
			core.Record{Channel: "event", Context: core.Map{core.F("event", "e"), core.F("listener", "l")}},
			kindEventNotify,
		},
		{
			"event channel without listener",
			core.Record{Channel: "event", Context: core.Map{core.F("event", "e")}},
			0,
		},
		{
			"null listener is not set",
			core.Record{Channel: "event", Context: core.Map{core.F("event", "e"), core.F("listener", nil)}},
			0,
		},
		{"translation", core.Record{Channel: "translation"}, kindTranslation},
		{"route match", core.Record{Channel: "request", Message: routeMatchMessage}, kindRouteMatch},
		{"doctrine", core.Record{Channel: "doctrine"}, kindDoctrine},
		{
			"asset route match",
			core.Record{Channel: "request", Message: routeMatchMessage, Context: core.Map{core.F("route", "_assetic_01")}},
			kindRouteMatch | kindAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.rec); got != tt.want {
				t.Errorf("classify() = %07b, want %07b", got, tt.want)
			}
		})
	}
}

func TestIsIgnored(t *testing.T) {
	f := NewEasyLogFormatter(Config{IgnoredRoutes: []string{"_wdt"}})

	tests := []struct {
		name    string
		records []core.Record
		want    bool
	}{
		{"no records", nil, false},
		{"other route", []core.Record{{Context: core.Map{core.F("route", "home")}}}, false},
		{"prefix only", []core.Record{{Context: core.Map{core.F("route", "_wdt_x")}}}, false},
		{
			"any record",
			[]core.Record{{Message: "a"}, {Context: core.Map{core.F("route", "_wdt")}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.isIgnored(tt.records); got != tt.want {
				t.Errorf("isIgnored() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewEasyLogFormatter(Config{}).isIgnored([]core.Record{{Context: core.Map{core.F("route", "_wdt")}}}) {
		t.Error("empty ignore list must not suppress anything")
	}
}

func transformAll(records []core.Record) []core.Record {
	kinds := make([]kind, len(records))
	for i, r := range records {
		kinds[i] = classify(r)
	}
	out := make([]core.Record, len(records))
	for i := range records {
		out[i] = transform(records, kinds, i)
	}
	return out
}

func keys(m core.Map) []string {
	out := make([]string, len(m))
	for i, f := range m {
		out[i] = f.Key.String()
	}
	return out
}

func TestTransform_Deprecation(t *testing.T) {
	in := core.Record{Channel: "php", Context: core.Map{
		core.F("type", userDeprecated), core.F("level", 8), core.F("file", "x.php"),
	}}
	got := transformAll([]core.Record{in})[0]
	if k := keys(got.Context); len(k) != 1 || k[0] != "file" {
		t.Errorf("context keys = %v, want [file]", k)
	}
	if len(in.Context) != 3 {
		t.Error("input record was modified")
	}
}

func TestTransform_EventStop(t *testing.T) {
	in := core.Record{Channel: "app", Message: eventStopMessage, Context: core.Map{core.F("event", "e"), core.F("listener", "l")}}
	got := transformAll([]core.Record{in})[0]
	if got.Channel != channelEventStop || got.Message != eventStoppedByMessage {
		t.Errorf("got channel %q message %q", got.Channel, got.Message)
	}
	if len(got.Context) != 2 {
		t.Errorf("context should be kept, got %v", got.Context)
	}
}

func TestTransform_EventNotifyMergesConsecutive(t *testing.T) {
	records := []core.Record{
		{Channel: "event", Message: "Notified", Context: core.Map{core.F("event", "kernel.request"), core.F("listener", "A")}},
		{Channel: "event", Message: "Notified", Context: core.Map{core.F("event", "kernel.request"), core.F("listener", "B")}},
		{Channel: "app", Message: "between"},
		{Channel: channelEventNotify},
	}
	got := transformAll(records)

	if got[0].Display == core.DisplayHidden {
		t.Error("first notification must keep its header")
	}
	if got[1].Display != core.DisplayHidden {
		t.Error("second notification should be merged")
	}
	if got[3].Display == core.DisplayHidden {
		t.Error("notification after another record must keep its header")
	}
	if got[1].Channel != channelEventNotify || got[1].Message != "" {
		t.Errorf("got channel %q message %q", got[1].Channel, got[1].Message)
	}
	if len(got[1].Context) != 1 || !got[1].Context[0].Key.Is("kernel.request") || got[1].Context[0].Value.Str != "B" {
		t.Errorf("context = %v", got[1].Context)
	}
	if len(got[3].Context) != 0 {
		t.Errorf("notification without event/listener should have no context, got %v", got[3].Context)
	}
}

func TestTransform_TranslationMergesConsecutive(t *testing.T) {
	records := []core.Record{
		{Channel: "translation", Message: "Translation not found."},
		{Channel: "translation", Message: "Translation not found."},
	}
	got := transformAll(records)
	if got[0].Display == core.DisplayHidden || got[0].Message == "" {
		t.Error("first translation record must be kept as is")
	}
	if got[1].Display != core.DisplayHidden || got[1].Message != "" {
		t.Errorf("second record = %+v", got[1])
	}
}

func TestTransform_LookbackUsesOriginalClassification(t *testing.T) {
	// the first record is rewritten into an event stop, but it was a
	// translation record when the batch arrived
	records := []core.Record{
		{Channel: "translation", Message: eventStopMessage},
		{Channel: "translation", Message: "Translation not found."},
	}
	got := transformAll(records)
	if got[0].Channel != channelEventStop {
		t.Fatalf("first record channel = %q", got[0].Channel)
	}
	if got[1].Display != core.DisplayHidden {
		t.Error("lookback should see the untransformed translation record")
	}
}

func TestTransform_RouteMatch(t *testing.T) {
	in := core.Record{Channel: "request", Message: routeMatchMessage, Context: core.Map{
		core.F("route", "home"), core.F("method", "GET"), core.F("scheme", "https"), core.F("request_uri", "/x"),
	}}
	got := transformAll([]core.Record{in})[0]

	k := keys(got.Context)
	if len(k) != 3 || k[0] != "GET" || k[1] != "route" || k[2] != "scheme" {
		t.Errorf("context keys = %v, want [GET route scheme]", k)
	}
	if got.Context[0].Value.Str != "/x" {
		t.Errorf("GET maps to %v", got.Context[0].Value)
	}
}

func TestTransform_AssetRouteMatch(t *testing.T) {
	in := core.Record{Channel: "request", Message: routeMatchMessage, Context: core.Map{
		core.F("route", "_assetic_01"), core.F("method", "GET"), core.F("request_uri", "/css/a.css"),
	}}
	got := transformAll([]core.Record{in})[0]
	if got.Message != assetRouteMessage {
		t.Errorf("message = %q", got.Message)
	}
	if len(got.Context) != 3 {
		t.Errorf("context should be kept, got %v", got.Context)
	}
}

func TestTransform_Doctrine(t *testing.T) {
	tests := []struct {
		name    string
		context core.Map
		wrapped bool
	}{
		{"positional", core.ListMap(core.IntValue(1), core.StringValue("x")), true},
		{"named", core.Map{core.F("sql", "SELECT 1")}, false},
		{"empty", nil, true},
		{"empty map", core.Map{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transformAll([]core.Record{{Channel: "doctrine", Context: tt.context}})[0]
			_, wrapped := got.Context.Get(queryParamsKey)
			if wrapped != tt.wrapped {
				t.Errorf("wrapped = %v, want %v (context %v)", wrapped, tt.wrapped, got.Context)
			}
			if wrapped {
				v, _ := got.Context.Get(queryParamsKey)
				if len(v.Map) != len(tt.context) {
					t.Errorf("wrapped %d values, want %d", len(v.Map), len(tt.context))
				}
			}
		})
	}
}
