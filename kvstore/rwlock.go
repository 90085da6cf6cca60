package kvstore

import "sync"

// RWLock is a writer-priority reader-writer lock. Any number of readers
// may hold the lock together; a writer holds it alone. Once a writer is
// waiting, readers that arrive after it block until the writer has run,
// while readers already holding the lock are left to finish. Sustained
// writes can therefore starve readers; the reverse cannot happen.
type RWLock struct {
	mu             sync.Mutex
	readersOK      *sync.Cond
	writersOK      *sync.Cond
	activeReaders  int
	writerActive   bool
	writersWaiting int
}

func NewRWLock() *RWLock {
	l := &RWLock{}
	l.readersOK = sync.NewCond(&l.mu)
	l.writersOK = sync.NewCond(&l.mu)
	return l
}

func (l *RWLock) RLock() {
	l.mu.Lock()
	for l.writerActive || l.writersWaiting > 0 {
		l.readersOK.Wait()
	}
	l.activeReaders++
	l.mu.Unlock()
}

func (l *RWLock) RUnlock() {
	l.mu.Lock()
	l.activeReaders--
	if l.activeReaders == 0 && l.writersWaiting > 0 {
		l.writersOK.Signal()
	}
	l.mu.Unlock()
}

func (l *RWLock) Lock() {
	l.mu.Lock()
	for l.writerActive || l.activeReaders > 0 {
		l.writersWaiting++
		l.writersOK.Wait()
		l.writersWaiting--
	}
	l.writerActive = true
	l.mu.Unlock()
}

func (l *RWLock) Unlock() {
	l.mu.Lock()
	l.writerActive = false
	if l.writersWaiting > 0 {
		l.writersOK.Signal()
	} else {
		l.readersOK.Broadcast()
	}
	l.mu.Unlock()
}
