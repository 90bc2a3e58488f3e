// Package fileurl 提供文件路径相关的工具函数
package fileurl

import (
	"os"
	"path/filepath"
)

// GetExePath 获取可执行文件所在目录
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		dir, _ := os.Getwd()
		return dir
	}
	return filepath.Dir(exe)
}

// IsExist 判断文件或目录是否存在
func IsExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// CreatePath 为文件路径创建所属目录
// path 是文件路径，创建的是其父目录
func CreatePath(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// CreateDirIfNotExist 目录不存在则创建
func CreateDirIfNotExist(dir string, perm os.FileMode) error {
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}
