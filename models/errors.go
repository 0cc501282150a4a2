package models

import "errors"

var ErrStatusEventImmutable = errors.New("status events are append-only")
