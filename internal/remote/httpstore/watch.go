package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"

	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/task"
)

// Watch opens the live snapshot feed over a websocket. Each message from
// the service carries the full current task list.
func (c *Client) Watch(ctx context.Context) (remote.Subscription, error) {
	u := c.baseURL.JoinPath(c.tasksPath("") + "/watch")
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	opts := &websocket.DialOptions{}
	if c.token != "" {
		opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + c.token}}
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, u.String(), opts)
	if err != nil {
		return nil, fmt.Errorf("watch dial: %v: %w", err, remote.ErrUnavailable)
	}

	readCtx, stop := context.WithCancel(ctx)
	sub := &subscription{
		conn:      conn,
		stop:      stop,
		snapshots: make(chan []task.Task, 1),
	}
	go sub.readLoop(readCtx)

	return sub, nil
}

type subscription struct {
	conn      *websocket.Conn
	stop      context.CancelFunc
	snapshots chan []task.Task
	err       error
}

var _ remote.Subscription = (*subscription)(nil)

func (s *subscription) Snapshots() <-chan []task.Task { return s.snapshots }

func (s *subscription) Err() error { return s.err }

func (s *subscription) Close() error {
	s.stop()
	return s.conn.Close(websocket.StatusNormalClosure, "")
}

func (s *subscription) readLoop(ctx context.Context) {
	defer close(s.snapshots)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.err = fmt.Errorf("watch read: %v: %w", err, remote.ErrUnavailable)
			}
			return
		}

		var snap []task.Task
		if err := json.Unmarshal(data, &snap); err != nil {
			s.err = fmt.Errorf("watch decode: %w", err)
			return
		}
		if snap == nil {
			snap = []task.Task{}
		}

		s.deliver(snap)
	}
}

// deliver replaces any undelivered snapshot; only the latest state matters.
func (s *subscription) deliver(snap []task.Task) {
	for {
		select {
		case s.snapshots <- snap:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}
