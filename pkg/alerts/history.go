package alerts

// alertRing is a fixed-capacity ring buffer of fired alerts. Once full, the
// oldest entry is overwritten, keeping per-rule memory bounded no matter how
// often a rule fires.
type alertRing struct {
	buf   []Alert
	start int
	size  int
}

func newAlertRing(capacity int) *alertRing {
	return &alertRing{buf: make([]Alert, capacity)}
}

func (r *alertRing) push(alert Alert) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = alert
		r.size++
		return
	}
	r.buf[r.start] = alert
	r.start = (r.start + 1) % len(r.buf)
}

// last returns the most recently pushed alert.
func (r *alertRing) last() (Alert, bool) {
	if r.size == 0 {
		return Alert{}, false
	}
	return r.buf[(r.start+r.size-1)%len(r.buf)], true
}

// recent returns up to n alerts, newest first.
func (r *alertRing) recent(n int) []Alert {
	if n > r.size {
		n = r.size
	}
	out := make([]Alert, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(r.start+r.size-1-i)%len(r.buf)])
	}
	return out
}

// all returns the retained alerts in chronological order.
func (r *alertRing) all() []Alert {
	out := make([]Alert, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}
