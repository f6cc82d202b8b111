package repository

import "errors"

// ErrNotFound намеренно не различает "нет такой задачи" и "задача чужая",
// чтобы не раскрывать существование чужих записей.
var ErrNotFound = errors.New("задача не найдена")

// ErrStorage — сбой подключения или ограничения хранилища.
var ErrStorage = errors.New("ошибка хранилища")
