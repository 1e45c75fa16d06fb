package inputstate_test

import (
	"fmt"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/inputstate"
	"github.com/go-drift/textstate/pkg/styledtext"
)

// A user edit reaches the state core as a scalar payload: the event
// counter and cache id update, the content the tree builder committed
// stays untouched.
func Example() {
	content := styledtext.Plain("A", styledtext.TextAttributes{FontSize: 16})
	state, err := inputstate.New(
		content,
		styledtext.DefaultParagraphAttributes(),
		styledtext.TextAttributes{FontSize: 16},
		inputstate.ParentContext{Tag: 1},
		inputstate.ThemePadding{},
	)
	if err != nil {
		panic(err)
	}
	state.EventCount = 5

	patch, err := inputstate.DecodePatch(bridge.Payload{
		"mostRecentEventCount": 6,
		"opaqueCacheId":        42,
	}, state)
	if err != nil {
		panic(err)
	}

	next := inputstate.Derive(state, patch)
	fmt.Println(next.EventCount, next.CachedContentID, next.Content.String())
	// Output: 6 42 A
}
