package action

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator joins the token fields. No field value can contain it.
	Separator = "|"
	// MaxTokenLength is Telegram's callback_data limit in bytes.
	MaxTokenLength = 64
)

var (
	ErrVersionMismatch = fmt.Errorf("callback token has a foreign version")
	ErrMalformed       = fmt.Errorf("callback token is malformed")
	ErrTokenTooLong    = fmt.Errorf("callback token exceeds telegram limit")
)

type decoder struct {
	arity  int
	decode func(r *fieldReader) Action
}

var decoders = map[string]decoder{
	Noop{}.tag():             {0, func(*fieldReader) Action { return Noop{} }},
	ShowMenu{}.tag():         {0, func(*fieldReader) Action { return ShowMenu{} }},
	WizardStart{}.tag():      {0, func(*fieldReader) Action { return WizardStart{} }},
	WizardDateManual{}.tag(): {0, func(*fieldReader) Action { return WizardDateManual{} }},
	WizardComment{}.tag():    {0, func(*fieldReader) Action { return WizardComment{} }},
	WizardPreview{}.tag():    {0, func(*fieldReader) Action { return WizardPreview{} }},
	WizardSave{}.tag():       {0, func(*fieldReader) Action { return WizardSave{} }},
	SendSaved{}.tag():        {0, func(*fieldReader) Action { return SendSaved{} }},

	ShowList{}.tag(): {3, func(r *fieldReader) Action {
		return ShowList{Item: r.item(), Filter: r.id(), Page: r.num()}
	}},
	ShowItem{}.tag(): {4, func(r *fieldReader) Action {
		return ShowItem{Item: r.item(), Filter: r.id(), Page: r.num(), ID: r.id()}
	}},
	DeleteItem{}.tag(): {3, func(r *fieldReader) Action {
		return DeleteItem{Item: r.item(), Page: r.num(), ID: r.id()}
	}},
	DeleteConfirmed{}.tag(): {3, func(r *fieldReader) Action {
		return DeleteConfirmed{Item: r.item(), Page: r.num(), ID: r.id()}
	}},
	CreateStudent{}.tag(): {1, func(r *fieldReader) Action {
		return CreateStudent{Page: r.num()}
	}},
	CreateTopic{}.tag(): {1, func(r *fieldReader) Action {
		return CreateTopic{Page: r.num()}
	}},
	RenameStudent{}.tag(): {2, func(r *fieldReader) Action {
		return RenameStudent{StudentID: r.id(), Page: r.num()}
	}},
	SetParent{}.tag(): {2, func(r *fieldReader) Action {
		return SetParent{StudentID: r.id(), Page: r.num()}
	}},
	WizardDate{}.tag(): {1, func(r *fieldReader) Action {
		return WizardDate{Day: r.day()}
	}},
	WizardTopicPage{}.tag(): {1, func(r *fieldReader) Action {
		return WizardTopicPage{Page: r.num()}
	}},
	WizardTopic{}.tag(): {1, func(r *fieldReader) Action {
		return WizardTopic{TopicID: r.id()}
	}},
	WizardStudentPage{}.tag(): {1, func(r *fieldReader) Action {
		return WizardStudentPage{Page: r.num()}
	}},
	WizardStudent{}.tag(): {1, func(r *fieldReader) Action {
		return WizardStudent{StudentID: r.id()}
	}},
	WizardHomework{}.tag(): {1, func(r *fieldReader) Action {
		return WizardHomework{Status: r.num()}
	}},
	WizardProactive{}.tag(): {1, func(r *fieldReader) Action {
		return WizardProactive{Value: r.flag()}
	}},
	WizardPaid{}.tag(): {1, func(r *fieldReader) Action {
		return WizardPaid{Value: r.flag()}
	}},
}

// Codec converts actions to callback tokens of the form
// "<version>|<tag>|<field>..." and back.
type Codec struct {
	version string
}

// NewCodec returns a codec stamping tokens with version. Tokens carrying any
// other version are rejected on decode, so bumping it invalidates old buttons.
func NewCodec(version string) (*Codec, error) {
	if version == "" || strings.Contains(version, Separator) {
		return nil, fmt.Errorf("invalid callback version %q", version)
	}
	return &Codec{version: version}, nil
}

// Version returns the marker written into every token.
func (c *Codec) Version() string {
	return c.version
}

// Encode serializes a. The result is deterministic for equal actions.
func (c *Codec) Encode(a Action) (string, error) {
	if a == nil {
		a = Noop{}
	}
	parts := append([]string{c.version, a.tag()}, a.fields()...)
	token := strings.Join(parts, Separator)
	if len(token) > MaxTokenLength {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrTokenTooLong, a.tag(), len(token))
	}
	return token, nil
}

// Decode is Parse with every failure mapped to Noop.
func (c *Codec) Decode(token string) Action {
	a, err := c.Parse(token)
	if err != nil {
		return Noop{}
	}
	return a
}

// Parse deserializes token and explains why it was rejected.
func (c *Codec) Parse(token string) (Action, error) {
	parts := strings.Split(token, Separator)
	if len(parts) < 2 {
		return Noop{}, fmt.Errorf("%w: %d fields", ErrMalformed, len(parts))
	}
	if parts[0] != c.version {
		return Noop{}, fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, parts[0], c.version)
	}

	d, ok := decoders[parts[1]]
	if !ok {
		return Noop{}, fmt.Errorf("%w: unknown tag %q", ErrMalformed, parts[1])
	}
	args := parts[2:]
	if len(args) != d.arity {
		return Noop{}, fmt.Errorf("%w: tag %q wants %d fields, got %d", ErrMalformed, parts[1], d.arity, len(args))
	}

	r := &fieldReader{fields: args}
	a := d.decode(r)
	if r.err != nil {
		return Noop{}, fmt.Errorf("%w: tag %q: %v", ErrMalformed, parts[1], r.err)
	}
	return a, nil
}

// fieldReader consumes token fields in order and keeps the first error.
type fieldReader struct {
	fields []string
	pos    int
	err    error
}

func (r *fieldReader) next() string {
	if r.pos >= len(r.fields) {
		r.fail(fmt.Errorf("missing field %d", r.pos))
		return ""
	}
	v := r.fields[r.pos]
	r.pos++
	return v
}

func (r *fieldReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *fieldReader) num() int {
	raw := r.next()
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(fmt.Errorf("field %d: %w", r.pos-1, err))
	}
	return v
}

func (r *fieldReader) id() int64 {
	raw := r.next()
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.fail(fmt.Errorf("field %d: %w", r.pos-1, err))
	}
	return v
}

func (r *fieldReader) flag() bool {
	switch raw := r.next(); raw {
	case "1":
		return true
	case "0":
		return false
	default:
		r.fail(fmt.Errorf("field %d: bad bool %q", r.pos-1, raw))
		return false
	}
}

func (r *fieldReader) item() ItemType {
	switch raw := ItemType(r.next()); raw {
	case ItemStudent, ItemTopic, ItemReport:
		return raw
	default:
		r.fail(fmt.Errorf("field %d: bad item type %q", r.pos-1, raw))
		return ""
	}
}

func (r *fieldReader) day() LessonDay {
	switch raw := LessonDay(r.next()); raw {
	case Today, Yesterday:
		return raw
	default:
		r.fail(fmt.Errorf("field %d: bad lesson day %q", r.pos-1, raw))
		return ""
	}
}
