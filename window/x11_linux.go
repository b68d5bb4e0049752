//go:build linux

package window

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"launchkey/log"
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// X11 reads and moves focus through EWMH properties and shows the picker
// with an external dialog program. The identity's BundleID is the X window
// id ("0x1c00007"), which restores the exact window while it still exists.
type X11 struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom

	// present serializes pickers so snapshot and dialog spawn are not
	// interleaved with another presentation.
	present sync.Mutex
	picker  *picker
}

func New() (Service, error) {
	p, err := findPicker()
	if err != nil {
		return nil, err
	}
	x, err := newX11()
	if err != nil {
		return nil, err
	}
	x.picker = p
	return x, nil
}

func newX11() (*X11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	x := &X11{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("interning %s: %w", name, err)
		}
		x.atoms[name] = reply.Atom
	}
	return x, nil
}

func (x *X11) Close() {
	x.conn.Close()
}

func (x *X11) property(w xproto.Window, atom, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(x.conn, false, w, atom, typ, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (x *X11) activeWindow() (xproto.Window, error) {
	data, err := x.property(x.root, x.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err == nil && len(data) >= 4 {
		if w := xproto.Window(xgb.Get32(data)); w != 0 {
			return w, nil
		}
	}
	reply, err := xproto.GetInputFocus(x.conn).Reply()
	if err != nil {
		return 0, err
	}
	if reply.Focus == 0 || reply.Focus == x.root {
		return 0, ErrNoFocus
	}
	return x.topLevel(reply.Focus), nil
}

func (x *X11) topLevel(w xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(x.conn, w).Reply()
		if err != nil || reply.Parent == x.root || reply.Parent == 0 {
			return w
		}
		w = reply.Parent
	}
}

func (x *X11) windowName(w xproto.Window) (string, bool) {
	data, err := x.property(w, x.atoms["_NET_WM_NAME"], x.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00"), true
	}
	data, err = x.property(w, x.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00"), true
	}
	return "", false
}

// windowClass returns the WM_CLASS instance and class names.
func (x *X11) windowClass(w xproto.Window) (instance, class string) {
	data, err := x.property(w, x.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func (x *X11) clients() ([]xproto.Window, error) {
	data, err := x.property(x.root, x.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1024)
	if err != nil {
		return nil, err
	}
	wins := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		wins = append(wins, xproto.Window(xgb.Get32(data[i:])))
	}
	return wins, nil
}

func (x *X11) identity(w xproto.Window) *Identity {
	id := &Identity{BundleID: Str(fmt.Sprintf("0x%x", uint32(w)))}
	instance, class := x.windowClass(w)
	switch {
	case class != "":
		id.AppName = Str(class)
	case instance != "":
		id.AppName = Str(instance)
	}
	if name, ok := x.windowName(w); ok {
		id.WindowTitle = Str(name)
	}
	return id
}

func (x *X11) Snapshot(ctx context.Context) (*Identity, error) {
	w, err := x.activeWindow()
	if err != nil {
		return nil, err
	}
	return x.identity(w), nil
}

func (x *X11) Present(ctx context.Context, p Prompt) (string, bool, error) {
	x.present.Lock()
	defer x.present.Unlock()
	return x.picker.run(ctx, p)
}

// SnapshotAndPresent holds the presentation lock from the focus read until
// the dialog exits. X11 has no primitive that reads focus and maps a window
// atomically; the read happens immediately before the dialog is spawned.
func (x *X11) SnapshotAndPresent(ctx context.Context, p Prompt) (Outcome, error) {
	x.present.Lock()
	defer x.present.Unlock()

	return presentAfterFocus(ctx, x.Snapshot, x.picker, p)
}

// presentAfterFocus reads focus and then runs the picker. Failing to read
// focus leaves the identity absent; the picker is still shown.
func presentAfterFocus(ctx context.Context, read func(context.Context) (*Identity, error), pk *picker, p Prompt) (Outcome, error) {
	var o Outcome
	id, err := read(ctx)
	switch {
	case err == nil:
		o.Identity = id
	case !errors.Is(err, ErrNoFocus):
		log.Warnf("reading focus before picker: %v", err)
	}
	o.Choice, o.Chosen, err = pk.run(ctx, p)
	return o, err
}

func (x *X11) Restore(ctx context.Context, id Identity) bool {
	return RestoreWith(ctx, x, id)
}

func (x *X11) Dismiss(ctx context.Context, title string) bool {
	return x.picker.dismiss(title)
}

// activate asks the window manager to focus w (EWMH _NET_ACTIVE_WINDOW,
// source indication 2 = pager).
func (x *X11) activate(w xproto.Window) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   x.atoms["_NET_ACTIVE_WINDOW"],
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{2, 0, 0, 0, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.SendEventChecked(x.conn, false, x.root, mask, string(ev.Bytes())).Check()
}

func (x *X11) ActivateBundle(ctx context.Context, bundleID string) error {
	n, err := strconv.ParseUint(strings.TrimPrefix(bundleID, "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("bad window id %q: %w", bundleID, err)
	}
	target := xproto.Window(n)
	wins, err := x.clients()
	if err != nil {
		return err
	}
	for _, w := range wins {
		if w == target {
			return x.activate(w)
		}
	}
	return fmt.Errorf("window %s no longer exists", bundleID)
}

func (x *X11) find(match func(w xproto.Window) bool) (xproto.Window, bool) {
	wins, err := x.clients()
	if err != nil {
		return 0, false
	}
	for _, w := range wins {
		if match(w) {
			return w, true
		}
	}
	return 0, false
}

func (x *X11) hasClass(w xproto.Window, app string) bool {
	instance, class := x.windowClass(w)
	return strings.EqualFold(class, app) || strings.EqualFold(instance, app)
}

func (x *X11) ActivateApp(ctx context.Context, appName string) error {
	w, ok := x.find(func(w xproto.Window) bool { return x.hasClass(w, appName) })
	if !ok {
		return fmt.Errorf("no window of %s", appName)
	}
	return x.activate(w)
}

func (x *X11) RaiseWindow(ctx context.Context, appName, title string) error {
	w, ok := x.find(func(w xproto.Window) bool {
		name, _ := x.windowName(w)
		return name == title && x.hasClass(w, appName)
	})
	if !ok {
		return fmt.Errorf("no window %q of %s", title, appName)
	}
	return x.activate(w)
}

// Diagnose reports whether the X server and a picker program are usable.
func Diagnose(ctx context.Context) (string, error) {
	p, err := findPicker()
	if err != nil {
		return "", err
	}
	x, err := newX11()
	if err != nil {
		return "", err
	}
	defer x.Close()
	id, err := x.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("reading focus: %w", err)
	}
	return fmt.Sprintf("picker %s, focused window: %s", p.name, id), nil
}
