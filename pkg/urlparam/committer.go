package urlparam

import "github.com/vango-dev/pagekit/pkg/protocol"

// NewPatchCommitter returns a Committer that queues a URLReplace patch
// instead of touching an address bar. Servers use it to push the new address
// to a connected page along with its other patches.
func NewPatchCommitter(queue func(protocol.Patch)) Committer {
	return func(_ map[string]any, _ string, href string) error {
		if queue == nil {
			return nil
		}
		_, raw := splitLocation(href)
		pairs := ParseQuery(raw).Pairs()
		params := make([]protocol.Param, len(pairs))
		for i, p := range pairs {
			params[i] = protocol.Param{Key: p.Name, Value: p.Value}
		}
		queue(protocol.NewURLReplacePatch(href, params))
		return nil
	}
}
