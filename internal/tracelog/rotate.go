/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Rotation/compression for completed trace logs. FileSink writes one
// unbounded text file per run; a batch of many runs through
// internal/runner would otherwise fill disk, so a closed FileSink's
// backing file can optionally be compressed in place.
package tracelog

import (
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/PDesa16/raftdevs/internal/errors"
)

// CompressAndRemove reads the trace log at path, writes path+".zst" next
// to it, and removes the uncompressed original. It is meant to run
// after a FileSink has been Closed.
func CompressAndRemove(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return errors.LogOpenFailed(path, err)
	}
	defer src.Close()

	dstPath := path + ".zst"
	dst, err := os.Create(dstPath)
	if err != nil {
		return errors.LogOpenFailed(dstPath, err)
	}
	defer dst.Close()

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return errors.LogWriteFailed(err)
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		return errors.LogWriteFailed(err)
	}
	if err := enc.Close(); err != nil {
		return errors.LogWriteFailed(err)
	}
	return os.Remove(path)
}
