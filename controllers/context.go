package controllers

type ContextKey string

const UserIDKey = ContextKey("userID")
