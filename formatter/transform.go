package formatter

import (
	"github.com/philipp01105/easylog/core"
)

const (
	eventStoppedByMessage = `Event "{event}" stopped by:`
	assetRouteMessage     = "{method}: {request_uri}"
	queryParamsKey        = "query params"
)

// transform rewrites records[i] according to the rules of the kinds it
// matched. kinds holds the classification of the untransformed batch, so
// the lookback at i-1 never depends on how that record was rewritten.
// The rules run in a fixed order and each one sees the output of the
// previous rule. records is not modified.
func transform(records []core.Record, kinds []kind, i int) core.Record {
	r := records[i].Clone()
	k := kinds[i]
	var previous kind
	if i > 0 {
		previous = kinds[i-1]
	}

	if k.is(kindDeprecation) && isSet(r.Context, "type", "level") {
		r.Context = r.Context.Without("type", "level")
	}

	if k.is(kindEventStop) {
		r.Channel = channelEventStop
		r.Message = eventStoppedByMessage
	}

	if k.is(kindEventNotify) {
		var merged core.Map
		event, hasEvent := r.Context.Get("event")
		listener, hasListener := r.Context.Get("listener")
		if hasEvent && hasListener {
			merged = core.Map{{Key: keyOf(event), Value: listener}}
		}
		if previous.is(kindEventNotify) {
			r.Display = core.DisplayHidden
		}
		r.Channel = channelEventNotify
		r.Message = ""
		r.Context = merged
	}

	if k.is(kindTranslation) && previous.is(kindTranslation) {
		r.Display = core.DisplayHidden
		r.Message = ""
	}

	if k.is(kindRouteMatch) {
		if isAssetRequest(r) {
			r.Message = assetRouteMessage
		} else if r.Context.Has("method", "request_uri") {
			method, _ := r.Context.Get("method")
			uri, _ := r.Context.Get("request_uri")
			r.Context = prepend(core.Field{Key: keyOf(method), Value: uri}, r.Context.Without("method", "request_uri"))
		}
	}

	// An empty context counts as positional and is wrapped too.
	if k.is(kindDoctrine) && r.Context.IsPositional() {
		params := r.Context
		if params == nil {
			params = core.Map{}
		}
		r.Context = core.Map{{Key: core.NamedKey(queryParamsKey), Value: core.MapValue(params)}}
	}

	return r
}

// keyOf turns a value into a mapping key: strings stay names, integers
// become positions and anything else is keyed by its string form.
func keyOf(v core.Value) core.Key {
	switch v.Type {
	case core.StringType:
		return core.NamedKey(v.Str)
	case core.IntType:
		return core.IndexKey(int(v.Int64))
	default:
		return core.NamedKey(v.String())
	}
}

// prepend puts first in front of rest. When rest already holds the same
// key, its value wins but the entry stays in front.
func prepend(first core.Field, rest core.Map) core.Map {
	out := make(core.Map, 0, len(rest)+1)
	out = append(out, first)
	for _, f := range rest {
		if f.Key == first.Key {
			out[0].Value = f.Value
			continue
		}
		out = append(out, f)
	}
	return out
}
