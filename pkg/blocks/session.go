// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/google/uuid"
	"github.com/wavetermdev/waveblocks/pkg/util/logutil"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
	"golang.org/x/sync/errgroup"
)

var ErrNoContainer = errors.New("no container to exit")
var ErrNotInTree = errors.New("container is not part of the session tree")

// Session is the build context of one declaration run: the root container,
// the stack of entered containers and the id counter.
// Ids are never reused within a session.
type Session struct {
	SessionId string
	lock      *sync.Mutex
	root      Container
	stack     *arraystack.Stack // of Container, top is the current container
	counter   int
	blockMap  map[int]Block
	loaders   []Loader
	loaded    bool
}

func MakeSession() *Session {
	s := &Session{lock: &sync.Mutex{}}
	s.Begin()
	return s
}

// Begin resets the session: no root, no current container, counter at zero.
func (s *Session) Begin() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.SessionId = uuid.New().String()
	s.root = nil
	s.stack = arraystack.New()
	s.counter = 0
	s.blockMap = make(map[int]Block)
	s.loaders = nil
	s.loaded = false
	logutil.DevPrintf("[blocks] begin session %s\n", s.SessionId)
}

func (s *Session) allocateId_nolock() int {
	id := s.counter
	s.counter++
	return id
}

// AllocateId returns the current counter value, then increments it.
func (s *Session) AllocateId() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.allocateId_nolock()
}

func (s *Session) current_nolock() Container {
	top, ok := s.stack.Peek()
	if !ok {
		return nil
	}
	return top.(Container)
}

// Current returns the container new blocks attach to (nil outside any container).
func (s *Session) Current() Container {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.current_nolock()
}

func (s *Session) Root() Container {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.root
}

// Depth is the number of entered containers.
func (s *Session) Depth() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stack.Size()
}

func (s *Session) inTree_nolock(c Container) bool {
	var cur Container = c
	for cur != nil {
		if cur == s.root {
			return true
		}
		cur = cur.GetBlockBase().Parent
	}
	return false
}

// Enter makes c the current container. The first container entered becomes the root;
// later ones must descend from it.
func (s *Session) Enter(c Container) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.root == nil {
		s.root = c
		base := c.GetBlockBase()
		if base.Session == nil {
			base.Session = s
			base.Id = s.allocateId_nolock()
			s.blockMap[base.Id] = c
		}
	} else if !s.inTree_nolock(c) {
		return utilds.MakeSubCodedError(utilds.ErrCode_Session, c.GetBlockBase().BlockName, ErrNotInTree)
	}
	s.stack.Push(c)
	return nil
}

// Exit restores the previously current container and returns the one exited.
func (s *Session) Exit() (Container, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	top, ok := s.stack.Pop()
	if !ok {
		return nil, utilds.MakeCodedError(utilds.ErrCode_Session, ErrNoContainer)
	}
	return top.(Container), nil
}

// Register gives b an id and attaches it to the current container (if any).
func (s *Session) Register(b Block) {
	base := b.GetBlockBase()
	loader, isLoader := b.(Loader)
	s.lock.Lock()
	base.Id = s.allocateId_nolock()
	base.Session = s
	s.blockMap[base.Id] = b
	if cur := s.current_nolock(); cur != nil {
		base.Parent = cur
		cur.AddChild(b)
	}
	lateLoad := false
	if isLoader {
		s.loaders = append(s.loaders, loader)
		lateLoad = s.loaded
	}
	s.lock.Unlock()
	if lateLoad {
		// declared after the session loaded, resolve right away
		if err := loader.LoadInitial(); err != nil {
			log.Printf("[blocks] late load of %s failed: %v\n", base, err)
		}
	}
}

func (s *Session) GetBlock(id int) Block {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.blockMap[id]
}

// GetBlocks returns every registered block ordered by id.
func (s *Session) GetBlocks() []Block {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]int, 0, len(s.blockMap))
	for id := range s.blockMap {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	rtn := make([]Block, 0, len(ids))
	for _, id := range ids {
		rtn = append(rtn, s.blockMap[id])
	}
	return rtn
}

// LoadConcurrency bounds how many initial value producers run at once.
const LoadConcurrency = 8

// Load resolves every deferred initial value exactly once.
// Producers run concurrently (on goroutines with no active session).
// Returns the first error; all loaders run regardless.
func (s *Session) Load() error {
	s.lock.Lock()
	if s.loaded {
		s.lock.Unlock()
		return nil
	}
	s.loaded = true
	loaders := append([]Loader(nil), s.loaders...)
	s.lock.Unlock()

	var eg errgroup.Group
	eg.SetLimit(LoadConcurrency)
	for _, loader := range loaders {
		eg.Go(func() error {
			base := loader.GetBlockBase()
			if err := loader.LoadInitial(); err != nil {
				log.Printf("[blocks] load %s: %v\n", base, err)
				return utilds.MakeSubCodedError(utilds.ErrCode_Load, base.String(), fmt.Errorf("loading %s: %w", base, err))
			}
			return nil
		})
	}
	return eg.Wait()
}

func (s *Session) IsLoaded() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.loaded
}
