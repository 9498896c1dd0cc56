package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/revtext"
)

func TestOwnershipViolationLogged(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	c := revtext.MustNew(revtext.Options{Logger: New(l)})

	b, err := c.Encode([]byte("x"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_ = b.Release()
	_ = b.Release()

	e := hook.LastEntry()
	if e == nil || e.Message != "ownership violation" || e.Level != logrus.WarnLevel {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Data["reason"] != "double_release" || e.Data["component"] != "revtext" {
		t.Fatalf("unexpected fields: %v", e.Data)
	}
}
