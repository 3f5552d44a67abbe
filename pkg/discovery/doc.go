// Package discovery implements mDNS-based discovery of Qubi modules.
//
// Modules advertise a "_qubi._udp" service carrying their module id,
// category and protocol version in TXT records. Controllers browse for
// these services and receive results on a channel as they appear:
//
//	browser, _ := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
//	results, err := browser.Browse(ctx)
//	for svc := range results {
//		fmt.Println(svc.ModuleID, svc.Addresses)
//	}
//
// mDNS discovery complements the protocol-level broadcast probe in the
// controller package; it requires no open module socket and carries the
// module category without a command round trip.
package discovery
