package formatter

import (
	"strings"

	"github.com/philipp01105/easylog/core"
)

const (
	// userDeprecated is PHP's E_USER_DEPRECATED error type
	userDeprecated = 16384

	eventStopMessage  = `Listener "{listener}" stopped propagation of the event "{event}".`
	routeMatchMessage = `Matched route "{route}".`
	assetRoutePrefix  = "_assetic_"

	channelEventStop   = "_event_stop"
	channelEventNotify = "_event_notify"
)

// kind is the set of known patterns a record matches
type kind uint8

const (
	kindDeprecation kind = 1 << iota
	kindEventStop
	kindEventNotify
	kindTranslation
	kindRouteMatch
	kindDoctrine
	kindAsset
)

func (k kind) is(flag kind) bool {
	return k&flag != 0
}

// classify tags a record by the channel, message and context keys it
// carries. Missing fields never match.
func classify(r core.Record) kind {
	var k kind
	if isDeprecation(r) {
		k |= kindDeprecation
	}
	if r.Message == eventStopMessage {
		k |= kindEventStop
	}
	if isEventNotification(r) {
		k |= kindEventNotify
	}
	if r.Channel == "translation" {
		k |= kindTranslation
	}
	if r.Message == routeMatchMessage {
		k |= kindRouteMatch
	}
	if r.Channel == "doctrine" {
		k |= kindDoctrine
	}
	if isAssetRequest(r) {
		k |= kindAsset
	}
	return k
}

func isDeprecation(r core.Record) bool {
	if r.Channel != "php" {
		return false
	}
	if t, ok := r.Context.Get("type"); ok && t.Type == core.IntType && t.Int64 == userDeprecated {
		return true
	}
	return strings.Contains(r.Message, "deprecated since")
}

func isEventNotification(r core.Record) bool {
	if r.Channel == channelEventNotify {
		return true
	}
	return r.Channel == "event" && isSet(r.Context, "event", "listener")
}

func isAssetRequest(r core.Record) bool {
	route, ok := r.Route()
	return ok && strings.HasPrefix(route, assetRoutePrefix)
}

// isSet reports whether every name is present with a non-null value
func isSet(m core.Map, names ...string) bool {
	for _, name := range names {
		v, ok := m.Get(name)
		if !ok || v.Type == core.NullType {
			return false
		}
	}
	return true
}

// isIgnored reports whether any record comes from an ignored route
func (f *EasyLogFormatter) isIgnored(records []core.Record) bool {
	if len(f.ignored) == 0 {
		return false
	}
	for _, r := range records {
		if route, ok := r.Route(); ok {
			if _, ignored := f.ignored[route]; ignored {
				return true
			}
		}
	}
	return false
}
