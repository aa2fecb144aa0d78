package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestXAddAutoIDAgainstEmptyStream(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()

	id, err := s.XAdd("events", "0-*", []string{"a", "1"})
	require.NoError(err)
	require.Equal(StreamID{Ms: 0, Seq: 1}, id)
}

func TestXAddAutoSeqAgainstExistingMs(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()

	id, err := s.XAdd("events", "5-1", []string{"a", "1"})
	require.NoError(err)
	require.Equal(StreamID{Ms: 5, Seq: 1}, id)

	id, err = s.XAdd("events", "5-*", []string{"a", "2"})
	require.NoError(err)
	require.Equal(StreamID{Ms: 5, Seq: 2}, id)
}

func TestXAddRejectsZeroID(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()
	_, err := s.XAdd("events", "0-0", []string{"a", "1"})
	require.ErrorIs(err, ErrZeroID)
}

func TestXAddRejectsNonIncreasingID(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()

	_, err := s.XAdd("events", "5-5", []string{"a", "1"})
	require.NoError(err)

	_, err = s.XAdd("events", "5-5", []string{"a", "2"})
	require.ErrorIs(err, ErrIDNotIncreasing)

	_, err = s.XAdd("events", "4-0", []string{"a", "2"})
	require.ErrorIs(err, ErrIDNotIncreasing)
}

func TestXAddDedupFieldsLastWriteWins(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()

	_, err := s.XAdd("events", "1-1", []string{"a", "first", "b", "x", "a", "second"})
	require.NoError(err)

	entries := s.XRange("events", minID, maxID)
	require.Len(entries, 1)
	require.Equal([]string{"a", "second", "b", "x"}, entries[0].Fields)
}

func TestXRangeFullEnumeration(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()
	for i := 1; i <= 5; i++ {
		_, err := s.XAdd("events", "*", []string{"n", "v"})
		require.NoError(err)
	}
	require.Equal(int64(5), s.XLen("events"))
	entries := s.XRange("events", minID, maxID)
	require.Len(entries, 5)
	for i := 1; i < len(entries); i++ {
		require.True(entries[i-1].ID.Less(entries[i].ID))
	}
}

func TestXReadExcludesAtOrBeforeFrom(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()
	id1, _ := s.XAdd("events", "1-1", []string{"a", "1"})
	id2, _ := s.XAdd("events", "2-1", []string{"a", "2"})

	reads := s.XRead([]ReadSpec{{Key: "events", From: id1}})
	require.Len(reads, 1)
	require.Len(reads[0].Entries, 1)
	require.Equal(id2, reads[0].Entries[0].ID)
}

func TestBlockingXReadWakesOnAdd(t *testing.T) {
	require := require.New(t)
	s := NewStreamStore()
	done := make(chan struct{})

	resultCh := make(chan []StreamRead, 1)
	go func() {
		reads, ok := s.BlockingXRead([]ReadSpec{{Key: "events", FromDollar: true}}, 2*time.Second, done)
		if ok {
			resultCh <- reads
		} else {
			resultCh <- nil
		}
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := s.XAdd("events", "*", []string{"n", "v"})
	require.NoError(err)

	select {
	case reads := <-resultCh:
		require.Len(reads, 1)
		require.Equal("events", reads[0].Key)
	case <-time.After(time.Second):
		t.Fatal("BlockingXRead never woke up")
	}
}
