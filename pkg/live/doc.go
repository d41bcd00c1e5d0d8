// Package live pushes page patches to connected browsers over WebSocket.
//
// A Hub upgrades HTTP requests into Sessions. Server code queues patches on
// a session, from class changes recorded by a dom.PatchDocument or address
// updates committed through Session.Committer, and flushes them as one
// sequenced Patches frame:
//
//	hub := live.NewHub(live.Config{OnConnect: func(s *live.Session) {
//	    sync := urlparam.NewSynchronizer(urlparam.NewMemoryLocation(s.Path()))
//	    sync.Set("tab", "home", s.Committer())
//	    s.Flush()
//	}})
//	router.Handle("/ws", hub)
//
// Clients may send Control frames; pings are answered with pongs and
// anything else is ignored.
package live
