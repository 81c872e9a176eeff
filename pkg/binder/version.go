package binder

const Version = "0.1.0"
