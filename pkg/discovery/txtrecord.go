package discovery

import (
	"fmt"
	"strings"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates TXT records for a module announcement.
func EncodeTXT(a *Announcement) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyModuleID] = a.ModuleID
	txt[TXTKeyModuleType] = string(a.ModuleType)
	txt[TXTKeyVersion] = wire.ProtocolVersion

	if a.Name != "" {
		txt[TXTKeyName] = a.Name
	}

	return txt
}

// DecodeTXT parses TXT records from a discovered module service.
func DecodeTXT(txt TXTRecordMap) (*ModuleService, error) {
	svc := &ModuleService{}

	var ok bool
	svc.ModuleID, ok = txt[TXTKeyModuleID]
	if !ok || svc.ModuleID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyModuleID)
	}

	typ, ok := txt[TXTKeyModuleType]
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyModuleType)
	}
	svc.ModuleType = wire.ParseModuleType(typ)

	svc.Version, ok = txt[TXTKeyVersion]
	if !ok || svc.Version == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}

	svc.Name = txt[TXTKeyName]

	return svc, nil
}

// TXTRecordsToStrings converts a TXT record map to "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXT record map.
// Entries without '=' are treated as boolean flags with an empty value.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap, len(strs))
	for _, s := range strs {
		key, value, found := strings.Cut(s, "=")
		if !found {
			txt[s] = ""
			continue
		}
		txt[key] = value
	}
	return txt
}
