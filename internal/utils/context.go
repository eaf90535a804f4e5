package utils

const UserIDKey contextKey = "user_id"
