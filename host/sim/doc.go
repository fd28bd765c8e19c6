// Package sim provides programmable in-memory hosts.
//
// A sim Env behaves like a browser window, a legacy browser, a broken browser
// or a Node-style runtime, and records every probe and fill it receives.
// Bytes come from crypto/rand unless a reader is supplied:
//
//	env := sim.NewBrowser()
//	ec := entropy.NewContext(env)
//	_ = ec.Fill(buf)
//	calls := env.Global().CryptoObject().Calls()
//
// Like real hosts, sim values are not safe for concurrent use.
package sim
